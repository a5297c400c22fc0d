package detail

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
)

// Field names an editable attribute of a book.
type Field string

const (
	FieldTitle     Field = "title"
	FieldAuthor    Field = "author"
	FieldPublisher Field = "publisher"
	FieldYear      Field = "year"
	FieldPages     Field = "pages"
	FieldImage     Field = "image"
)

// FormFields is the order fields appear in the edit form.
var FormFields = []Field{FieldTitle, FieldAuthor, FieldPublisher, FieldYear, FieldPages}

var (
	ErrUnknownField = errors.New("unknown field")
	ErrNotEditing   = errors.New("not editing")
)

// ParseField maps a field name to a Field.
func ParseField(name string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(name))); f {
	case FieldTitle, FieldAuthor, FieldPublisher, FieldYear, FieldPages, FieldImage:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Label returns the form label for f.
func (f Field) Label() string {
	switch f {
	case FieldTitle:
		return "Title"
	case FieldAuthor:
		return "Author"
	case FieldPublisher:
		return "Publisher"
	case FieldYear:
		return "Year"
	case FieldPages:
		return "Pages"
	case FieldImage:
		return "Image"
	}
	return string(f)
}

// Numeric reports whether f holds an integer once committed.
func (f Field) Numeric() bool {
	return f == FieldYear || f == FieldPages
}

// EditBuffer is the text working copy of a book during editing.
type EditBuffer struct {
	Title     string
	Author    string
	Publisher string
	Year      string
	Pages     string
	Image     *string
}

// BufferFrom copies b into a buffer, stringifying the numeric fields.
func BufferFrom(b catalog.Book) EditBuffer {
	buf := EditBuffer{
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
		Year:      strconv.Itoa(b.Year),
		Pages:     strconv.Itoa(b.Pages),
	}
	if b.Image != nil {
		img := *b.Image
		buf.Image = &img
	}
	return buf
}

// Get returns the text held for f.
func (e EditBuffer) Get(f Field) string {
	switch f {
	case FieldTitle:
		return e.Title
	case FieldAuthor:
		return e.Author
	case FieldPublisher:
		return e.Publisher
	case FieldYear:
		return e.Year
	case FieldPages:
		return e.Pages
	case FieldImage:
		if e.Image != nil {
			return *e.Image
		}
	}
	return ""
}

// with returns a copy of e with f set to value. Other fields are untouched.
func (e EditBuffer) with(f Field, value string) EditBuffer {
	switch f {
	case FieldTitle:
		e.Title = value
	case FieldAuthor:
		e.Author = value
	case FieldPublisher:
		e.Publisher = value
	case FieldYear:
		e.Year = value
	case FieldPages:
		e.Pages = value
	case FieldImage:
		if value == "" {
			e.Image = nil
		} else {
			v := value
			e.Image = &v
		}
	}
	return e
}

// NumberError reports edit text that is not a whole number.
type NumberError struct {
	Field Field
	Text  string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("%s must be a whole number, got %q", e.Field.Label(), e.Text)
}

// Payload builds the update body. Under NumericReject a non-integer year or
// pages is a *NumberError. Under NumericPassthrough it is sent as null.
func (e EditBuffer) Payload(policy config.NumericPolicy) (catalog.Update, error) {
	u := catalog.Update{
		Title:     e.Title,
		Author:    e.Author,
		Publisher: e.Publisher,
		Image:     e.Image,
	}
	for _, f := range []Field{FieldYear, FieldPages} {
		text := e.Get(f)
		var n *int
		if policy == config.NumericPassthrough {
			n = leadingInt(text)
		} else {
			v, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil {
				return catalog.Update{}, &NumberError{Field: f, Text: text}
			}
			n = &v
		}
		if f == FieldYear {
			u.Year = n
		} else {
			u.Pages = n
		}
	}
	return u, nil
}

// leadingInt parses an optional sign and the leading run of digits after
// whitespace, ignoring anything that follows. No digits, or a value that
// overflows int, yields nil.
func leadingInt(s string) *int {
	s = strings.TrimLeft(s, " \t\r\n\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return nil
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &v
}
