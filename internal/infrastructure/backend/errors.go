package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain"
)

// FieldError carries the validation messages for one field, as sent by the backend.
type FieldError struct {
	Field    string
	Messages []string
}

// APIError describes a non-2xx backend response.
// Message is set when the body's message is a string; Fields keeps the
// per-field map in document order when it is an object.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: HTTP %d: %s", e.Status, e.Text())
}

// Text returns the single human-readable message for this error, falling back
// to usecase.DefaultErrorText.
func (e *APIError) Text() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 && len(e.Fields[0].Messages) > 0 && e.Fields[0].Messages[0] != "" {
		return e.Fields[0].Messages[0]
	}
	return usecase.DefaultErrorText
}

// Is maps the status onto the domain error kinds.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrInvalidInput:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case domain.ErrUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
	Status  json.RawMessage `json:"status"`
}

func newAPIError(status int, raw []byte) *APIError {
	e := &APIError{Status: status}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return e
	}

	// An expired token may arrive as another 4xx carrying status 401 in the body.
	var bodyStatus int
	if json.Unmarshal(body.Status, &bodyStatus) == nil && bodyStatus == http.StatusUnauthorized {
		e.Status = http.StatusUnauthorized
	}

	var msg string
	switch {
	case json.Unmarshal(body.Message, &msg) == nil && msg != "":
		e.Message = msg
	case isObject(body.Message):
		e.Fields = fieldErrors(body.Message)
	case json.Unmarshal(body.Error, &msg) == nil && msg != "":
		e.Message = msg
	}
	return e
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// fieldErrors walks the object token by token so the first field stays first.
func fieldErrors(raw json.RawMessage) []FieldError {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var out []FieldError
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return out
		}
		out = append(out, FieldError{Field: key, Messages: messages(value)})
	}
	return out
}

func messages(raw json.RawMessage) []string {
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	var one string
	if json.Unmarshal(raw, &one) == nil {
		return []string{one}
	}
	return nil
}
