package hub

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation failure with context.
type ValidationError struct {
	Field   string // Field path (e.g., "authors[0].email")
	Code    string // Error code (e.g., "required", "invalid_format")
	Message string // Human-readable message
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains all validation errors for a record.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Error returns the errors joined into a single error, or nil.
func (r *ValidationResult) Error() error {
	if r.IsValid() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// ValidationOptions configures validation behavior.
type ValidationOptions struct {
	RequireTitle       bool
	RequireContributor bool
}

// DefaultValidationOptions returns lenient validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{}
}

// StrictValidationOptions requires a title and at least one contributor.
func StrictValidationOptions() ValidationOptions {
	return ValidationOptions{
		RequireTitle:       true,
		RequireContributor: true,
	}
}

// Validate checks a record. Missing required fields are errors; empty
// names and unresolved cross-references are warnings. E-mail and ORCID
// values, when present, must be single valid values.
func Validate(record *Record, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{}

	if strings.TrimSpace(record.Title) == "" {
		v := ValidationError{Field: "title", Code: "required", Message: "title is required"}
		if opts.RequireTitle {
			result.Errors = append(result.Errors, v)
		} else {
			result.Warnings = append(result.Warnings, v)
		}
	}

	people := record.People()
	if opts.RequireContributor && people.Len() == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "contributors",
			Code:    "required",
			Message: "at least one author or contributor is required",
		})
	}

	for i, c := range people.Authors {
		result.add(validateContributor(c, fmt.Sprintf("authors[%d]", i)))
	}
	for i, c := range people.Contributors {
		result.add(validateContributor(c, fmt.Sprintf("contributors[%d]", i)))
	}

	for i, id := range record.Identifiers {
		if id.Type == IdentifierORCID && !ValidORCID(id.Value) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("identifiers[%d]", i),
				Code:    "invalid_format",
				Message: fmt.Sprintf("invalid ORCID %q", id.Value),
			})
		}
	}

	return result
}

func (r *ValidationResult) add(errs, warnings []ValidationError) {
	r.Errors = append(r.Errors, errs...)
	r.Warnings = append(r.Warnings, warnings...)
}

func validateContributor(c Contributor, field string) (errs, warnings []ValidationError) {
	if c.Surname == "" && c.Given == "" && c.Collab == "" {
		warnings = append(warnings, ValidationError{
			Field:   field,
			Code:    "empty_name",
			Message: "contributor has no name or collaboration label",
		})
	}
	if c.Email != "" && !ValidEmail(c.Email) {
		errs = append(errs, ValidationError{
			Field:   field + ".email",
			Code:    "invalid_format",
			Message: fmt.Sprintf("invalid e-mail %q", c.Email),
		})
	}
	if c.ORCID != "" && !ValidORCID(c.ORCID) {
		errs = append(errs, ValidationError{
			Field:   field + ".orcid",
			Code:    "invalid_format",
			Message: fmt.Sprintf("invalid ORCID %q", c.ORCID),
		})
	}
	if len(c.AffiliationIDs) > len(c.Affiliations) {
		warnings = append(warnings, ValidationError{
			Field:   field + ".affiliation_ids",
			Code:    "mismatch",
			Message: "more affiliation id lists than affiliations",
		})
	}
	return errs, warnings
}
