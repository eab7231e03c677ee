package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Span is a minimal position range, duplicated here (rather than
// imported from internal/ast) so the errors package has no dependency
// on the AST — every other phase depends on errors, not vice versa.
type Span struct {
	StartLine, StartCol int
	EndLine, EndCol     int
	File                string
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.StartLine, s.StartCol)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.StartCol)
}

// Fix is a suggested remediation attached to a Report, with a
// confidence score in [0, 1].
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the canonical structured diagnostic type produced by every
// phase of the frontend.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *Span          `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

const schemaV1 = "bryc.diagnostic/v1"

// New creates a Report for code, deriving Phase from the code
// registry.
func New(code, message string, span *Span) *Report {
	return &Report{
		Schema:  schemaV1,
		Code:    code,
		Phase:   Phase(code),
		Message: message,
		Span:    span,
	}
}

// WithData attaches structured data and returns the same Report for
// chaining.
func (r *Report) WithData(data map[string]any) *Report {
	r.Data = data
	return r
}

// WithFix attaches a suggested fix and returns the same Report.
func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}

// ReportError wraps a Report so it survives errors.As() unwrapping
// while still satisfying the error interface.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	if e.Rep.Span != nil {
		return fmt.Sprintf("%s: %s: %s", e.Rep.Span, e.Rep.Code, e.Rep.Message)
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// Wrap wraps r as an error. Returns nil if r is nil.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// As extracts a *Report from an error chain, if present.
func As(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// ToJSON renders the report as JSON, compact or pretty-printed.
func (r *Report) ToJSON(pretty bool) (string, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Counter accumulates recoverable errors for a single phase. Phases
// consult Count() at their boundary: per spec.md §7, no HIR is handed
// downstream while the count is non-zero.
type Counter struct {
	reports []*Report
}

// Add records a recoverable Report.
func (c *Counter) Add(r *Report) {
	c.reports = append(c.reports, r)
}

// Count returns the number of recorded reports.
func (c *Counter) Count() int { return len(c.reports) }

// Reports returns all recorded reports in the order they were added.
func (c *Counter) Reports() []*Report { return c.reports }
