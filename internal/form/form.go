// Package form collects and normalizes the fields of an analysis request.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/codearchitect/schema"
)

// Field names, as sent on the wire.
const (
	FieldRepositoryURL = "repository_url"
	FieldBranch        = "branch"
	FieldFocusAreas    = "focus_areas"
	FieldDepth         = "depth"
)

// FieldNames lists the form fields in display order.
var FieldNames = []string{FieldRepositoryURL, FieldBranch, FieldFocusAreas, FieldDepth}

// ErrRepositoryURLRequired is returned when the only required field is blank.
var ErrRepositoryURLRequired = errors.New("repository URL is required")

// Values are the raw text contents of the four fields.
type Values struct {
	RepositoryURL string
	Branch        string
	FocusAreas    string
	Depth         string
}

// Get returns a field by name.
func (v Values) Get(name string) (string, error) {
	switch name {
	case FieldRepositoryURL:
		return v.RepositoryURL, nil
	case FieldBranch:
		return v.Branch, nil
	case FieldFocusAreas:
		return v.FocusAreas, nil
	case FieldDepth:
		return v.Depth, nil
	default:
		return "", fmt.Errorf("unknown field %q", name)
	}
}

// Set updates a field by name.
func (v *Values) Set(name, value string) error {
	switch name {
	case FieldRepositoryURL:
		v.RepositoryURL = value
	case FieldBranch:
		v.Branch = value
	case FieldFocusAreas:
		v.FocusAreas = value
	case FieldDepth:
		v.Depth = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// Normalize applies the field defaults and builds the request.
func Normalize(v Values) (schema.AnalysisRequest, error) {
	repoURL := strings.TrimSpace(v.RepositoryURL)
	if repoURL == "" {
		return schema.AnalysisRequest{}, ErrRepositoryURLRequired
	}
	return schema.AnalysisRequest{
		RepositoryURL: repoURL,
		Branch:        NormalizeBranch(v.Branch),
		FocusAreas:    ParseFocusAreas(v.FocusAreas),
		Depth:         ParseDepth(v.Depth),
	}, nil
}

// NormalizeBranch returns the trimmed branch, or "main" when blank.
func NormalizeBranch(s string) string {
	if b := strings.TrimSpace(s); b != "" {
		return b
	}
	return schema.DefaultBranch
}

// ParseFocusAreas splits on commas, trims entries and drops empty ones.
// An empty result yields the default focus areas.
func ParseFocusAreas(s string) []string {
	var areas []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			areas = append(areas, p)
		}
	}
	if len(areas) == 0 {
		return schema.DefaultFocusAreas()
	}
	return areas
}

// ParseDepth reads a leading integer the way a lenient number field does:
// leading whitespace and a sign are accepted, trailing garbage is ignored.
// No digits, or a zero result, yields the default depth. The value is not
// clamped to the 1-5 range.
func ParseDepth(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		if n > (1<<31)/10 {
			return schema.DefaultDepth
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 || n == 0 {
		return schema.DefaultDepth
	}
	if neg {
		n = -n
	}
	return n
}

// Form is the submission form: its field values and the loading flag that
// disables input. A Form is not safe for concurrent use.
type Form struct {
	values  Values
	loading bool
}

// New creates a form with the depth field prefilled.
func New() *Form {
	return &Form{values: Values{Depth: fmt.Sprint(schema.DefaultDepth)}}
}

// NewWithValues creates a form with the given field values.
func NewWithValues(v Values) *Form {
	return &Form{values: v}
}

// Values returns the current field contents.
func (f *Form) Values() Values {
	return f.values
}

// Loading reports whether inputs are disabled.
func (f *Form) Loading() bool {
	return f.loading
}

// SetLoading sets the caller-supplied loading flag.
func (f *Form) SetLoading(loading bool) {
	f.loading = loading
}

// SetField edits one field. Edits are ignored while loading; the return
// value reports whether the edit was applied.
func (f *Form) SetField(name, value string) (bool, error) {
	if f.loading {
		return false, nil
	}
	if err := f.values.Set(name, value); err != nil {
		return false, err
	}
	return true, nil
}

// Submit normalizes the current values and hands the request to onSubmit.
// The fields are left as they are. Submitting while loading is not
// rejected; the flag only disables editing.
func (f *Form) Submit(onSubmit func(schema.AnalysisRequest)) error {
	req, err := Normalize(f.values)
	if err != nil {
		return err
	}
	onSubmit(req)
	return nil
}
