package scorer

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports an unrecognized industry or investment scale.
type ValidationError struct {
	Field string   // "industry type" or "investment scale"
	Value string   // the rejected input
	Valid []string // accepted values in catalogue order
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q not recognized, choose from: %s",
		e.Field, e.Value, strings.Join(e.Valid, ", "))
}

// IsValidation reports whether err, or any error in its chain, is a
// ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
