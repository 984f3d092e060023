package games

import "fmt"

// InvalidInputError reports malformed round data: wrong hole count, impossible
// scores, unknown players in options and so on. A calculator that returns it has
// computed nothing; there is never a partial result.
type InvalidInputError struct {
	Format Format
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Format == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("%s: invalid input: %s", e.Format, e.Reason)
}

func invalid(f Format, format string, args ...any) error {
	return &InvalidInputError{Format: f, Reason: fmt.Sprintf(format, args...)}
}
