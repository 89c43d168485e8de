// Package ingest converts spreadsheet-style facility exports into
// normalized region, locality, and facility entities.
package ingest

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

// isAbsent reports whether a cell carries no usable value. The literal
// token "N/A" (any case) is treated the same as blank.
func isAbsent(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "N/A")
}

// parseBool maps the common spreadsheet spellings of "yes" to true.
// Returns nil for absent input. Any other non-absent token is false;
// unrecognized tokens are not an error, callers wanting a report use
// the second return (true = token was recognized).
func parseBool(s string) (*bool, bool) {
	if isAbsent(s) {
		return nil, true
	}
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "yes", "y", "true", "1":
		b := true
		return &b, true
	case "no", "n", "false", "0":
		b := false
		return &b, true
	default:
		b := false
		return &b, false
	}
}

// parseNumber parses a human-entered number, stripping currency
// symbols and thousands separators first. "$1,250.00" → 1250.
// Returns nil for absent or non-numeric input; the second return is
// false when a non-absent value failed to parse.
func parseNumber(s string) (*float64, bool) {
	if isAbsent(s) {
		return nil, true
	}
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// parseInt is parseNumber truncated to an integer, for count columns.
func parseInt(s string) (*int, bool) {
	f, ok := parseNumber(s)
	if f == nil {
		return nil, ok
	}
	n := int(*f)
	return &n, ok
}

// parseList splits a comma-separated cell into trimmed segments,
// dropping empties. Returns nil if nothing remains.
func parseList(s string) []string {
	if isAbsent(s) {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseHours attempts a strict JSON parse of the hours cell. Anything
// that is not a JSON object of strings is preserved as raw text rather
// than discarded.
func parseHours(s string) model.Hours {
	if isAbsent(s) {
		return nil
	}
	trimmed := strings.TrimSpace(s)

	var sched map[string]string
	if err := json.Unmarshal([]byte(trimmed), &sched); err == nil && len(sched) > 0 {
		return model.ScheduleHours(sched)
	}
	return model.RawHours(trimmed)
}

// Slugify derives a URL-safe identifier from a display name: lowercase,
// strip everything outside [a-z0-9 -], collapse runs of whitespace and
// hyphens to single hyphens, trim leading/trailing hyphens.
func Slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '-':
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	return strings.Join(fields, "-")
}
