package activity

import (
	"time"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/auth"
)

type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

type transition struct {
	from       []Status
	to         Status
	permission auth.Action
}

var transitions = map[Action]transition{
	ActionSubmit: {
		from:       []Status{StatusDraft},
		to:         StatusPendingApproval,
		permission: auth.ActionActivitySubmit,
	},
	ActionApprove: {
		from:       []Status{StatusPendingApproval},
		to:         StatusApproved,
		permission: auth.ActionActivityApprove,
	},
	ActionReject: {
		from:       []Status{StatusPendingApproval},
		to:         StatusDraft,
		permission: auth.ActionActivityReject,
	},
	ActionCancel: {
		from:       []Status{StatusDraft, StatusPendingApproval, StatusApproved},
		to:         StatusCancelled,
		permission: auth.ActionActivityCancel,
	},
	ActionComplete: {
		from:       []Status{StatusApproved},
		to:         StatusCompleted,
		permission: auth.ActionActivityComplete,
	},
}

func lookupTransition(action Action) (transition, error) {
	t, ok := transitions[action]
	if !ok {
		return transition{}, internal.NewValidationFieldError("action", "unknown workflow action "+string(action), internal.ErrCodeInvalidDecision)
	}
	return t, nil
}

// CanApply reports whether action is defined from the activity's status.
func (a *Activity) CanApply(action Action) bool {
	t, ok := transitions[action]
	if !ok {
		return false
	}
	for _, s := range t.from {
		if a.Status == s {
			return true
		}
	}
	return false
}

// Apply moves the activity through action in memory. Persisting it is the
// caller's job and must be guarded on the returned previous status.
func (a *Activity) Apply(action Action, now time.Time) (Status, error) {
	t, err := lookupTransition(action)
	if err != nil {
		return "", err
	}
	if !a.CanApply(action) {
		return "", internal.ErrInvalidActivityStatus.WithDetails(map[string]string{
			"action": string(action),
			"status": string(a.Status),
		})
	}

	prev := a.Status
	switch action {
	case ActionSubmit:
		a.Approvals.TreasurerSubmitted = true
		a.Approvals.TreasurerSubmittedAt = &now
	case ActionApprove:
		a.Approvals.PresidentApproved = true
		a.Approvals.PresidentApprovedAt = &now
	case ActionReject:
		a.Approvals.TreasurerSubmitted = false
		a.Approvals.TreasurerSubmittedAt = nil
	}
	a.Status = t.to
	a.UpdatedAt = now
	return prev, nil
}
