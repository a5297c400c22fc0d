package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Detail is one extra attribute of a log entry.
type Detail struct {
	Label string
	Value string
}

// Entry is one structured log record.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	BookID    string
	Details   []Detail
	// Raw holds the original line when it was not JSON.
	Raw string
}

// Parse decodes a JSON log line written by the slog handler. Lines that are
// not JSON come back with only Raw set.
func Parse(line string) Entry {
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Entry{Raw: line}
	}

	var e Entry
	if ts, ok := fields["time"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Time = parsed
		}
	}
	e.Level, _ = fields["level"].(string)
	e.Message, _ = fields["msg"].(string)
	e.Component, _ = fields["component"].(string)
	e.BookID, _ = fields["book_id"].(string)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		switch k {
		case "time", "level", "msg", "component", "book_id":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.Details = append(e.Details, Detail{Label: k, Value: stringify(fields[k])})
	}
	return e
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return "null"
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

// Tail reads and parses the last maxEntries lines of path. Blank lines are skipped.
func Tail(path string, maxEntries int) ([]Entry, error) {
	lines, err := Read(path, maxEntries)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

// Header renders the first line of e: time, level, component, book and message.
func (e Entry) Header() string {
	if e.Raw != "" {
		return e.Raw
	}
	parts := make([]string, 0, 4)
	if !e.Time.IsZero() {
		parts = append(parts, e.Time.In(time.Local).Format("2006-01-02 15:04:05"))
	}
	level := strings.ToUpper(strings.TrimSpace(e.Level))
	if level == "" {
		level = "INFO"
	}
	parts = append(parts, level)
	if e.Component != "" {
		parts = append(parts, "["+e.Component+"]")
	}
	if e.BookID != "" {
		parts = append(parts, "Book "+e.BookID)
	}
	header := strings.Join(parts, " ")
	if msg := strings.TrimSpace(e.Message); msg != "" {
		header += " – " + msg
	}
	return header
}

// Format renders e as a header plus one indented line per detail.
func (e Entry) Format() string {
	if len(e.Details) == 0 {
		return e.Header()
	}
	var b strings.Builder
	b.WriteString(e.Header())
	for _, d := range e.Details {
		if d.Label == "" || d.Value == "" {
			continue
		}
		b.WriteString("\n    - ")
		b.WriteString(d.Label)
		b.WriteString(": ")
		b.WriteString(d.Value)
	}
	return b.String()
}
