package recommend

import (
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// Error describes a failed recommender call. It matches domain.ErrRemote
// under errors.Is, and unwraps to the transport error when there is one.
type Error struct {
	Op      string // "recommend" or "explore"
	Status  int    // HTTP status, zero when the request never completed
	InBand  bool   // the recommender answered but reported a failure in the body
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("recommender %s: %v", e.Op, e.Err)
	case e.InBand:
		return fmt.Sprintf("recommender %s: %s", e.Op, e.Message)
	default:
		return fmt.Sprintf("recommender %s: status %d: %s", e.Op, e.Status, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports domain.ErrRemote as a match so callers need not know this type.
func (e *Error) Is(target error) bool { return target == domain.ErrRemote }
