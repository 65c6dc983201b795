package auth

import (
	"github.com/frahmantamala/club-finance/internal"
)

type Action string

const (
	ActionActivityCreate       Action = "activity.create"
	ActionActivityUpdateBudget Action = "activity.update_budget"
	ActionActivitySubmit       Action = "activity.submit"
	ActionActivityApprove      Action = "activity.approve"
	ActionActivityReject       Action = "activity.reject"
	ActionActivityCancel       Action = "activity.cancel"
	ActionActivityComplete     Action = "activity.complete"

	ActionExpenseSubmit Action = "expense.submit"
	ActionExpenseReview Action = "expense.review"
	ActionExpenseView   Action = "expense.view"

	ActionPaymentSubmit Action = "payment.submit"
	ActionPaymentReview Action = "payment.review"

	ActionDuesCycleCreate Action = "dues_cycle.create"
)

// permissionTable is the single source of truth for (action, role) decisions.
var permissionTable = map[Action][]Role{
	ActionActivityCreate:       {RoleTreasurer},
	ActionActivityUpdateBudget: {RoleTreasurer},
	ActionActivitySubmit:       {RoleTreasurer},
	ActionActivityApprove:      {RolePresident},
	ActionActivityReject:       {RolePresident},
	ActionActivityCancel:       {RoleTreasurer, RolePresident},
	ActionActivityComplete:     {RoleTreasurer, RolePresident},

	ActionExpenseSubmit: {RoleTreasurer, RolePresident, RoleAdmin},
	ActionExpenseReview: {RoleTreasurer},
	ActionExpenseView:   {RoleTreasurer, RolePresident, RoleAdmin},

	ActionPaymentSubmit: {RoleTreasurer, RolePresident, RoleMember, RoleAdmin},
	ActionPaymentReview: {RoleTreasurer},

	ActionDuesCycleCreate: {RoleAdmin},
}

const (
	memberStatusInactive       = "INACTIVE"
	memberStatusPendingProfile = "PENDING_PROFILE"
)

// Can reports whether role may perform action. Unknown actions are denied.
func Can(role Role, action Action) bool {
	for _, r := range permissionTable[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize is Can plus the account-level gate: an inactive member, or one
// who has not finished onboarding, may only submit payments.
func Authorize(u *User, action Action) error {
	if u == nil {
		return internal.ErrInvalidToken
	}
	if !Can(u.Role, action) {
		return internal.ErrRoleNotPermitted.WithDetails(map[string]string{
			"action": string(action),
			"role":   string(u.Role),
		})
	}
	if action == ActionPaymentSubmit {
		return nil
	}
	switch u.Status {
	case memberStatusInactive:
		return internal.ErrMemberInactive
	case memberStatusPendingProfile:
		return internal.ErrProfileIncomplete
	}
	return nil
}

// ActionsFor lists what a role may do, in table order of declaration.
func ActionsFor(role Role) []Action {
	var out []Action
	for _, a := range allActions {
		if Can(role, a) {
			out = append(out, a)
		}
	}
	return out
}

var allActions = []Action{
	ActionActivityCreate, ActionActivityUpdateBudget, ActionActivitySubmit,
	ActionActivityApprove, ActionActivityReject, ActionActivityCancel, ActionActivityComplete,
	ActionExpenseSubmit, ActionExpenseReview, ActionExpenseView,
	ActionPaymentSubmit, ActionPaymentReview,
	ActionDuesCycleCreate,
}
