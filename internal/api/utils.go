package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/ukane-philemon/srecords/internal/db"
	customerror "github.com/ukane-philemon/srecords/internal/errors"
	"github.com/ukane-philemon/srecords/internal/report"
)

// maxBodyBytes caps every request body. A full batch of report.MaxEntries
// students is far below it.
const maxBodyBytes = 1 << 20

// errBodyTooLarge is returned when a request body exceeds maxBodyBytes.
var errBodyTooLarge = fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	// Names may only contain letters and spaces.
	validate.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return report.ValidName(fl.Field().String())
	})
	return validate
}

// validateRequest validates req and returns a db.ErrInvalidRequest describing
// the failed fields.
func (s *Server) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", db.ErrInvalidRequest, err)
	}

	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, fieldErrorDetail(fe))
	}
	return fmt.Errorf("%w: %s", db.ErrInvalidRequest, strings.Join(details, "; "))
}

func fieldErrorDetail(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, after, found := strings.Cut(field, "."); found {
		field = after
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "alphaspace":
		return fmt.Sprintf("%s must contain only letters and spaces", field)
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// decodeJSON decodes the JSON request body into req and validates it.
func (s *Server) decodeJSON(r *http.Request, req any) error {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		return bodyError(err)
	}
	return s.validateRequest(req)
}

// bodyError converts an error from reading or decoding a request body.
func bodyError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return errBodyTooLarge
	}
	return fmt.Errorf("%w: malformed request body: %v", db.ErrInvalidRequest, err)
}

// handleError writes the status and message that match err. Errors that are
// not part of the service error taxonomy are logged and hidden from the
// client.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		writeError(w, r, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, db.ErrServiceUnavailable):
		writeError(w, r, http.StatusInternalServerError, db.ErrServiceUnavailable.Error())
	case errors.Is(err, db.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Student not found")
	case errors.Is(err, db.ErrInvalidRequest):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("SERVER ERROR", "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, r, http.StatusInternalServerError, (&customerror.ErrorUnknown{}).Error())
	}
}

func handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusUnauthorized, (&customerror.ErrorUnauthorized{}).Error())
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, &errorResponse{Detail: detail})
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, &messageResponse{Message: message})
}
