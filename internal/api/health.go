package api

import (
	"net/http"
)

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, r, http.StatusOK, "Student records service is running")
}

// testMongo reports whether the database was reachable at startup.
func (s *Server) testMongo(w http.ResponseWriter, r *http.Request) {
	if err := s.guard.Ready(); err != nil {
		handleError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "MongoDB connected successfully")
}
