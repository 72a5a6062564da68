package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/report/export"
	"github.com/SKuytov/SVP/internal/validation"
	"github.com/SKuytov/SVP/pkg/logger"
)

// =============================================================================
// Envelope
// =============================================================================

// SuccessBody is the JSON envelope of a successful response
type SuccessBody struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorBody is the JSON envelope of a failed response
type ErrorBody struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

const msgInvalidJSON = "Invalid JSON data"

// RespondJSON writes data inside the success envelope
func RespondJSON(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, SuccessBody{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// RespondError writes the error envelope; fields is the per-field validation map
func RespondError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	writeJSON(w, status, ErrorBody{
		Success:   false,
		Message:   message,
		Errors:    fields,
		Timestamp: time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// StatusFor maps a service error to its HTTP status
// ⭐ SSOT: 에러 → HTTP 상태 매핑은 여기서만
func StatusFor(err error) int {
	switch {
	case errors.Is(err, contracts.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, contracts.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, contracts.ErrInvalidInput),
		errors.Is(err, contracts.ErrUnknownCategory),
		errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HandleError renders err. Client errors echo the error text (validation
// failures add the field map); anything else is logged and answered with
// the generic fallback message.
func HandleError(w http.ResponseWriter, log *logger.Logger, err error, fallback string) {
	status := StatusFor(err)
	switch {
	case status == http.StatusInternalServerError:
		log.WithError(err).Error(fallback)
		RespondError(w, status, fallback, nil)
	case validation.Fields(err) != nil:
		RespondError(w, status, "Validation failed", validation.Fields(err))
	default:
		RespondError(w, status, err.Error(), nil)
	}
}

// decodeJSON reads a JSON request body, rejecting unknown trailing data
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidParam(name, s)
	}
	return v, nil
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + " parameter: " + strconv.Quote(e.value)
}

func (e *paramError) Unwrap() error { return contracts.ErrInvalidInput }

func invalidParam(name, value string) error {
	return &paramError{name: name, value: value}
}
