package hybridindex

import (
	"errors"
	"fmt"
)

// NotBuiltError reports that a sub-index has never been built. Callers
// that hit this for the lexical index trigger a lazy rebuild; for the
// ANN index they fall back to the linear backend instead.
type NotBuiltError struct {
	SubIndex string
}

func (e *NotBuiltError) Error() string {
	return fmt.Sprintf("hybridindex: %s sub-index is not built", e.SubIndex)
}

// Common input errors surfaced to the Recall Service.
var (
	ErrEmptyQuery       = errors.New("hybridindex: query tokens and vector are both empty")
	ErrDimensionMismatch = errors.New("hybridindex: query vector dimension does not match the store")
	ErrTopKOutOfRange   = errors.New("hybridindex: top_k out of range")
)
