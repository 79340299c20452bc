package api

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/ukane-philemon/srecords/internal/report"
)

type batchEntryRequest struct {
	Name string   `json:"name" validate:"omitempty,alphaspace"`
	Mark *float64 `json:"mark" validate:"required,lte=100"`
}

type batchRequest struct {
	Students []batchEntryRequest `json:"students" validate:"required,min=1,max=500,dive"`
}

type batchResponse struct {
	Average      float64        `json:"average"`
	AboveAverage []report.Entry `json:"above_average"`
	Message      string         `json:"message"`
	Report       string         `json:"report"`
}

type batchRecord struct {
	Students  []report.Entry `json:"students"`
	Average   float64        `json:"average"`
	CreatedAt *time.Time     `json:"created_at"`
	SavedAt   string         `json:"saved_at"`
}

func (s *Server) createBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	entries := make([]report.Entry, len(req.Students))
	for i, entry := range req.Students {
		entries[i] = report.Entry{Name: entry.Name, Mark: *entry.Mark}
	}

	analysis, err := s.reporter.Submit(r.Context(), entries)
	if err != nil {
		handleError(w, r, err)
		return
	}

	aboveAverage := analysis.AboveAverage
	if aboveAverage == nil {
		aboveAverage = []report.Entry{}
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, &batchResponse{
		Average:      analysis.Average,
		AboveAverage: aboveAverage,
		Message:      "Marks and names saved",
		Report:       analysis.Text(),
	})
}

func (s *Server) listBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.reporter.History(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	records := make([]*batchRecord, 0, len(batches))
	for _, batch := range batches {
		records = append(records, &batchRecord{
			Students:  batch.Students,
			Average:   batch.Average,
			CreatedAt: batch.CreatedAt,
			SavedAt:   report.FormatTime(batch.CreatedAt),
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, records)
}
