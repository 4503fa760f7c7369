package changelog

import (
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
)

// ValidationError describes one schema violation with its field path
// and, when known, source line.
type ValidationError struct {
	Field   string
	Line    int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateOptions configures document validation.
type ValidateOptions struct {
	// RecognizedTags overrides the accepted tag set. Nil means
	// DefaultTags; an explicit empty slice accepts any tag.
	RecognizedTags []string
}

// Validate checks a compiled document against all schema constraints
// and returns every violation found rather than stopping at the first.
// An empty slice means the document is valid.
func Validate(doc *Document, opts ValidateOptions) []error {
	var errs []error

	if doc.Project == "" {
		errs = append(errs, &ValidationError{Field: "project", Message: "required field is empty"})
	}

	recognized := tagSet(opts.RecognizedTags)

	unreleased := 0
	seen := make(map[string]int)

	for i, r := range doc.Releases {
		errs = append(errs, validateRelease(&r, i, recognized)...)

		normalized := NormalizeVersion(r.Version)
		if normalized == "" {
			continue
		}
		if prev, dup := seen[normalized]; dup {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("releases[%d].version", i),
				Line:    r.Line,
				Message: fmt.Sprintf("duplicate version %q (first declared as releases[%d])", r.Version, prev),
			})
		} else {
			seen[normalized] = i
		}

		if r.IsUnreleased() {
			unreleased++
		}
	}

	if unreleased > 1 {
		errs = append(errs, &ValidationError{
			Field:   "releases",
			Message: "only one 'unreleased' release is allowed",
		})
	}

	return errs
}

func validateRelease(r *Release, index int, recognized map[string]bool) []error {
	var errs []error
	field := func(suffix string) string {
		return fmt.Sprintf("releases[%d]%s", index, suffix)
	}

	switch {
	case r.Version == "":
		errs = append(errs, &ValidationError{Field: field(".version"), Line: r.Line, Message: "required field is empty"})
	case r.IsUnreleased():
		if r.Released != "" {
			errs = append(errs, &ValidationError{Field: field(".released"), Line: r.Line, Message: "unreleased section must not carry a date"})
		}
	default:
		if _, err := semver.StrictNewVersion(NormalizeVersion(r.Version)); err != nil {
			errs = append(errs, &ValidationError{
				Field:   field(".version"),
				Line:    r.Line,
				Message: fmt.Sprintf("invalid version %q (expected semver X.Y.Z or %q)", r.Version, VersionUnreleased),
			})
		}
		if r.Released == "" {
			errs = append(errs, &ValidationError{Field: field(".released"), Line: r.Line, Message: "date is required for released versions"})
		}
	}

	if r.Released != "" {
		if _, err := time.Parse("2006-01-02", r.Released); err != nil {
			errs = append(errs, &ValidationError{
				Field:   field(".released"),
				Line:    r.Line,
				Message: fmt.Sprintf("invalid date %q (expected: YYYY-MM-DD)", r.Released),
			})
		}
	}

	if len(r.Entries) == 0 {
		errs = append(errs, &ValidationError{Field: field(".entries"), Line: r.Line, Message: "at least one change entry is required"})
	}

	for j, e := range r.Entries {
		errs = append(errs, validateEntry(&e, index, j, recognized)...)
	}

	return errs
}

func validateEntry(e *Entry, release, index int, recognized map[string]bool) []error {
	var errs []error
	field := func(suffix string) string {
		return fmt.Sprintf("releases[%d].entries[%d]%s", release, index, suffix)
	}

	if len(e.Tags) == 0 {
		errs = append(errs, &ValidationError{Field: field(".tags"), Line: e.Line, Message: "at least one tag is required"})
	}
	if recognized != nil {
		for _, tag := range e.Tags {
			if !recognized[tag] {
				errs = append(errs, &ValidationError{
					Field:   field(".tags"),
					Line:    e.Line,
					Message: fmt.Sprintf("unrecognized tag %q", tag),
				})
			}
		}
	}

	for _, ticket := range e.Tickets {
		if ticket <= 0 {
			errs = append(errs, &ValidationError{
				Field:   field(".tickets"),
				Line:    e.Line,
				Message: fmt.Sprintf("ticket reference must be a positive integer, got %d", ticket),
			})
		}
	}

	if e.Body == "" {
		errs = append(errs, &ValidationError{Field: field(".body"), Line: e.Line, Message: "change entry body cannot be empty"})
	}

	return errs
}

// tagSet converts the option slice into a lookup set. Nil means the
// default tag set; an explicit empty slice disables the check.
func tagSet(tags []string) map[string]bool {
	if tags == nil {
		tags = DefaultTags()
	}
	if len(tags) == 0 {
		return nil
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}
