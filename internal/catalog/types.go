package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Book mirrors the record returned inside GET /books/{id}.
type Book struct {
	ID        string  `json:"-"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Publisher string  `json:"publisher"`
	Year      int     `json:"year"`
	Pages     int     `json:"pages"`
	Image     *string `json:"image"`
}

// ImageURL returns the image reference or "" when the book has none.
func (b Book) ImageURL() string {
	if b.Image == nil {
		return ""
	}
	return *b.Image
}

// Update is the PUT /books/{id} body. A nil Year or Pages is sent as JSON
// null, which is how unparseable numbers are forwarded in passthrough mode.
type Update struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Publisher string  `json:"publisher"`
	Year      *int    `json:"year"`
	Pages     *int    `json:"pages"`
	Image     *string `json:"image"`
}

type bookEnvelope struct {
	Book *Book `json:"book"`
}

type errorBody struct {
	Message string `json:"message"`
}

var (
	// ErrUnauthorized matches API errors with status 401 or 403.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches API errors with status 404.
	ErrNotFound = errors.New("not found")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api %s returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Op, e.Status, e.Message)
}

// Is lets callers test status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// UserMessage returns the text worth showing a user for err: the API's own
// message when there is one, else the error string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
