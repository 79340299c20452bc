package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/ukane-philemon/srecords/internal/db"
	"github.com/ukane-philemon/srecords/internal/student"
)

// studentRequest fields must be present, an empty name is a valid name.
type studentRequest struct {
	Name *string  `json:"name" validate:"required"`
	Mark *float64 `json:"mark" validate:"required"`
}

func (s *Server) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.students.Students(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, students)
}

func (s *Server) createStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	err := s.students.Create(r.Context(), &student.Student{Name: *req.Name, Mark: *req.Mark})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeMessage(w, r, http.StatusOK, "Student added successfully")
}

func (s *Server) updateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.students.Update(r.Context(), *req.Name, *req.Mark); err != nil {
		handleError(w, r, err)
		return
	}

	writeMessage(w, r, http.StatusOK, fmt.Sprintf("%s updated successfully", *req.Name))
}

func (s *Server) deleteStudent(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("name") {
		handleError(w, r, fmt.Errorf("%w: name is required", db.ErrInvalidRequest))
		return
	}

	name := query.Get("name")
	if err := s.students.Delete(r.Context(), name); err != nil {
		handleError(w, r, err)
		return
	}

	writeMessage(w, r, http.StatusOK, fmt.Sprintf("%s deleted successfully", name))
}
