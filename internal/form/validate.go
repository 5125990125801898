// internal/form/validate.go
//
// Submit-time validation result.
//
// Context
//   Controller.Validate returns *ValidationError when any rule fails.  It
//   carries the failing fields in focus priority so a front end can focus
//   Focus() and show Error() as one blocking alert, one "label: message"
//   line per field.  Callers distinguish it from transport or server
//   failures with IsValidationError.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"strings"
)

// ErrorField describes a single validation failure.
type ErrorField struct {
	Field   Field
	Label   string // Persian label
	Message string // Persian message
}

// ValidationError aggregates every failing field of one submit attempt.
type ValidationError struct{ Fields []ErrorField }

// Error joins "label: message" lines in focus order.
func (ve *ValidationError) Error() string {
	lines := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		lines = append(lines, f.Label+": "+f.Message)
	}
	return strings.Join(lines, "\n")
}

// Focus returns the first invalid field.
func (ve *ValidationError) Focus() Field {
	if len(ve.Fields) == 0 {
		return FieldName
	}
	return ve.Fields[0].Field
}

// Has reports whether f failed.
func (ve *ValidationError) Has(f Field) bool {
	for _, e := range ve.Fields {
		if e.Field == f {
			return true
		}
	}
	return false
}

// IsValidationError reports whether err came from Controller.Validate.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
