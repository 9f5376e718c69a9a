// Package moderation implements the two-strike warning state machine:
// Clean -> FirstWarning -> Suspended. Suspended is terminal; reactivation
// happens only through the generic admin active toggle.
package moderation

import (
	"context"

	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/store"
	"github.com/courtbook/courtbook/internal/validate"
)

// Transition reports which state change a warning produced. The caller
// message differs for each, so the distinction is part of the contract.
type Transition int

const (
	// TransitionNone means the account was already suspended; the record
	// is re-saved unchanged and the request is not an error.
	TransitionNone Transition = iota
	TransitionFirstWarning
	TransitionSuspended
)

type Service struct {
	store *store.Store
}

func New(st *store.Store) *Service {
	return &Service{store: st}
}

// IssueWarning applies a warning to the target account. Checks run in a
// fixed order: caller role first, then text validation, then target
// existence. A caller without the moderator capability learns nothing
// about the target or the payload.
func (s *Service) IssueWarning(ctx context.Context, callerRole authz.Role, targetID int64, text string) (Transition, error) {
	if !authz.CanModerate(callerRole) {
		return TransitionNone, authz.ErrForbidden
	}

	if err := validate.Var("warning", text, "required,min=5,max=100"); err != nil {
		return TransitionNone, err
	}

	user, err := s.store.UserByID(ctx, targetID)
	if err != nil {
		return TransitionNone, err
	}

	switch user.WarningCount {
	case 0:
		user.Warning1 = &text
		user.WarningCount = 1
		if err := s.store.SaveUser(ctx, user); err != nil {
			return TransitionNone, err
		}
		return TransitionFirstWarning, nil

	case 1:
		user.Warning2 = &text
		user.WarningCount = 2
		user.Active = false
		if err := s.store.SaveUser(ctx, user); err != nil {
			return TransitionNone, err
		}
		return TransitionSuspended, nil

	default:
		// Already suspended: permissive no-op, the unchanged record is
		// still persisted.
		if err := s.store.SaveUser(ctx, user); err != nil {
			return TransitionNone, err
		}
		return TransitionNone, nil
	}
}

// Warnings returns both warning slots for the target. Either may be nil.
func (s *Service) Warnings(ctx context.Context, targetID int64) (warning1, warning2 *string, err error) {
	user, err := s.store.UserByID(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	return user.Warning1, user.Warning2, nil
}
