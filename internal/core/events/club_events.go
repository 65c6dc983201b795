package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeActivityTransitioned = "activity.transitioned"
	EventTypeExpenseReviewed      = "expense.reviewed"
	EventTypeConfirmationReviewed = "payment_confirmation.reviewed"
	EventTypeTicketGranted        = "ticket.granted"
	EventTypeDuesPaid             = "dues.paid"
	EventTypeMemberInactivated    = "member.inactivated"
	EventTypeDuesNotificationSent = "dues.notification"
	EventTypeMemberOnboarded      = "member.onboarded"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type ActivityTransitionedEvent struct {
	BaseEvent
	ActivityID string `json:"activity_id"`
	Action     string `json:"action"`
	From       string `json:"from"`
	To         string `json:"to"`
	ActorID    string `json:"actor_id"`
}

func NewActivityTransitionedEvent(activityID, action, from, to, actorID string) *ActivityTransitionedEvent {
	return &ActivityTransitionedEvent{
		BaseEvent: newBase(EventTypeActivityTransitioned, map[string]interface{}{
			"activity_id": activityID,
			"action":      action,
			"from":        from,
			"to":          to,
			"actor_id":    actorID,
		}),
		ActivityID: activityID,
		Action:     action,
		From:       from,
		To:         to,
		ActorID:    actorID,
	}
}

type ExpenseReviewedEvent struct {
	BaseEvent
	ExpenseID  string `json:"expense_id"`
	ActivityID string `json:"activity_id"`
	Decision   string `json:"decision"`
	Amount     int64  `json:"amount"`
	ReviewerID string `json:"reviewer_id"`
}

func NewExpenseReviewedEvent(expenseID, activityID, decision string, amount int64, reviewerID string) *ExpenseReviewedEvent {
	return &ExpenseReviewedEvent{
		BaseEvent: newBase(EventTypeExpenseReviewed, map[string]interface{}{
			"expense_id":  expenseID,
			"activity_id": activityID,
			"decision":    decision,
			"amount":      amount,
			"reviewer_id": reviewerID,
		}),
		ExpenseID:  expenseID,
		ActivityID: activityID,
		Decision:   decision,
		Amount:     amount,
		ReviewerID: reviewerID,
	}
}

type ConfirmationReviewedEvent struct {
	BaseEvent
	ConfirmationID string `json:"confirmation_id"`
	MemberID       string `json:"member_id"`
	Purpose        string `json:"purpose"`
	Decision       string `json:"decision"`
	ReviewerID     string `json:"reviewer_id"`
}

func NewConfirmationReviewedEvent(confirmationID, memberID, purpose, decision, reviewerID string) *ConfirmationReviewedEvent {
	return &ConfirmationReviewedEvent{
		BaseEvent: newBase(EventTypeConfirmationReviewed, map[string]interface{}{
			"confirmation_id": confirmationID,
			"member_id":       memberID,
			"purpose":         purpose,
			"decision":        decision,
			"reviewer_id":     reviewerID,
		}),
		ConfirmationID: confirmationID,
		MemberID:       memberID,
		Purpose:        purpose,
		Decision:       decision,
		ReviewerID:     reviewerID,
	}
}

type TicketGrantedEvent struct {
	BaseEvent
	ConfirmationID string `json:"confirmation_id"`
	MemberID       string `json:"member_id"`
	EventName      string `json:"event_name"`
}

func NewTicketGrantedEvent(confirmationID, memberID, eventName string) *TicketGrantedEvent {
	return &TicketGrantedEvent{
		BaseEvent: newBase(EventTypeTicketGranted, map[string]interface{}{
			"confirmation_id": confirmationID,
			"member_id":       memberID,
			"event_name":      eventName,
		}),
		ConfirmationID: confirmationID,
		MemberID:       memberID,
		EventName:      eventName,
	}
}

type DuesPaidEvent struct {
	BaseEvent
	MemberID string `json:"member_id"`
	CycleID  string `json:"cycle_id"`
	Source   string `json:"source"`
}

// NewDuesPaidEvent records a dues cycle settling; source is "confirmation"
// or "webhook".
func NewDuesPaidEvent(memberID, cycleID, source string) *DuesPaidEvent {
	return &DuesPaidEvent{
		BaseEvent: newBase(EventTypeDuesPaid, map[string]interface{}{
			"member_id": memberID,
			"cycle_id":  cycleID,
			"source":    source,
		}),
		MemberID: memberID,
		CycleID:  cycleID,
		Source:   source,
	}
}

type MemberInactivatedEvent struct {
	BaseEvent
	MemberID string `json:"member_id"`
	CycleID  string `json:"cycle_id"`
}

func NewMemberInactivatedEvent(memberID, cycleID string) *MemberInactivatedEvent {
	return &MemberInactivatedEvent{
		BaseEvent: newBase(EventTypeMemberInactivated, map[string]interface{}{
			"member_id": memberID,
			"cycle_id":  cycleID,
		}),
		MemberID: memberID,
		CycleID:  cycleID,
	}
}

type DuesNotificationEvent struct {
	BaseEvent
	MemberID string `json:"member_id"`
	Phase    string `json:"phase"`
	Result   string `json:"result"`
}

// NewDuesNotificationEvent reports the outcome of one automation notice;
// result is "sent", "failed" or "skipped".
func NewDuesNotificationEvent(memberID, phase, result string) *DuesNotificationEvent {
	return &DuesNotificationEvent{
		BaseEvent: newBase(EventTypeDuesNotificationSent, map[string]interface{}{
			"member_id": memberID,
			"phase":     phase,
			"result":    result,
		}),
		MemberID: memberID,
		Phase:    phase,
		Result:   result,
	}
}

type MemberOnboardedEvent struct {
	BaseEvent
	MemberID string `json:"member_id"`
}

func NewMemberOnboardedEvent(memberID string) *MemberOnboardedEvent {
	return &MemberOnboardedEvent{
		BaseEvent: newBase(EventTypeMemberOnboarded, map[string]interface{}{
			"member_id": memberID,
		}),
		MemberID: memberID,
	}
}
