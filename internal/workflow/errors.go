package workflow

import (
	"fmt"

	"github.com/Pranay9392/meity-audit-v2/internal/models"
)

// AuthorizationError means the actor's role is never permitted to perform the
// action in the request's current state (or at all). It carries enough detail
// for the presentation layer to build a "not your turn" message.
type AuthorizationError struct {
	Role   models.Role
	Action string
	Status models.Status
}

func (e *AuthorizationError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("role %s is not permitted to %s at status '%s'", e.Role, e.Action, e.Status.Display())
	}
	return fmt.Sprintf("role %s is not permitted to %s", e.Role, e.Action)
}

// InvalidTransitionError means the role could act on the request, but the
// (current, requested) pair is not a legal move. Replaying an already applied
// transition surfaces as this error because the precondition state no longer
// matches.
type InvalidTransitionError struct {
	Role      models.Role
	Current   models.Status
	Requested models.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from '%s' to '%s' for role %s",
		e.Current.Display(), e.Requested.Display(), e.Role)
}
