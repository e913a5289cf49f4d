package property

import (
	"strings"

	"github.com/vango-dev/scene/internal/errors"
)

// ErrBindingCycle matches every CycleError with errors.Is.
var ErrBindingCycle = errors.New("E101")

// CycleError reports that a binding re-entered a property that was already
// being evaluated. Chain lists the properties involved, starting and ending
// with the re-entered one.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "binding cycle: " + strings.Join(e.Chain, " -> ")
}

// Unwrap exposes the registered E101 error so callers can use errors.Is
// with ErrBindingCycle.
func (e *CycleError) Unwrap() error {
	return errors.New("E101").
		WithDetail(strings.Join(e.Chain, " -> ")).
		WithSuggestion("break the cycle by reading one of these properties with Peek or from a literal")
}
