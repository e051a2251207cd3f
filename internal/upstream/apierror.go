package upstream

import (
	"encoding/json"
	"sort"
	"strings"
)

// genericAuthMessage is the fallback when the upstream body matches none of
// the known error shapes.
const genericAuthMessage = "authentication failed, please try again"

// Error is an upstream API failure normalized to a single user-facing
// message. Status is the upstream HTTP status, used to pick the response
// code returned to the console.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// errorBody covers every observed upstream error object shape. The union is
// closed: message, title, and field errors are the only recognized keys.
type errorBody struct {
	Message string              `json:"message"`
	Title   string              `json:"title"`
	Errors  map[string][]string `json:"errors"`
}

// NormalizeError reduces an upstream error payload to one message. The four
// accepted shapes, tried in order:
//
//	{"message": "..."}  →  message
//	{"title": "..."}    →  title
//	{"errors": {"field": ["..."]}}  →  field messages joined
//	"plain string" (JSON string or raw text)  →  the string itself
//
// Anything else falls back to a generic message, so the caller always gets a
// displayable string and never a decode error.
func NormalizeError(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return genericAuthMessage
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			return body.Message
		case body.Title != "":
			return body.Title
		case len(body.Errors) > 0:
			return joinFieldErrors(body.Errors)
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
		return s
	}

	// Raw text bodies (not JSON at all) are used verbatim.
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return trimmed
	}

	return genericAuthMessage
}

// joinFieldErrors flattens {"field": ["msg", ...]} into "field: msg; ...".
// Fields are sorted so the output is deterministic.
func joinFieldErrors(fields map[string][]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(fields))
	for _, name := range names {
		for _, msg := range fields[name] {
			parts = append(parts, name+": "+msg)
		}
	}
	if len(parts) == 0 {
		return genericAuthMessage
	}
	return strings.Join(parts, "; ")
}
