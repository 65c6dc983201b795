package dues

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/core/events"
	"github.com/frahmantamala/club-finance/internal/notification"
)

type Action string

const (
	ActionSendReminders Action = "send-reminders"
	ActionSendOverdue   Action = "send-overdue"
	ActionEnforceGrace  Action = "enforce-grace"
)

var Actions = []Action{ActionSendReminders, ActionSendOverdue, ActionEnforceGrace}

func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// Notification outcomes reported per member.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Recipient is an ACTIVE member with unpaid dues for the cycle being processed.
type Recipient struct {
	MemberID  string `db:"id"`
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
}

type CycleReader interface {
	GetActive(ctx context.Context) (*Cycle, error)
}

type UnpaidMemberFinder interface {
	ListUnpaidActive(ctx context.Context, cycleID string) ([]Recipient, error)
}

type MemberDeactivator interface {
	Deactivate(ctx context.Context, memberID string) error
}

// NotificationLog stores the last day each member was notified per phase.
type NotificationLog interface {
	LastNotifiedOn(ctx context.Context, memberID, cycleID string, action Action) (string, error)
	MarkNotified(ctx context.Context, memberID, cycleID string, action Action, day string, at time.Time) error
}

// Result is the aggregate outcome of one phase run. Per-member errors only
// reach the logs.
type Result struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Action        Action `json:"action"`
	CycleID       string `json:"cycleId"`
	Sent          *int   `json:"sent,omitempty"`
	Inactivated   *int   `json:"inactivated,omitempty"`
	Failed        int    `json:"failed"`
	Skipped       int    `json:"skipped"`
	DaysUntilDue  *int   `json:"daysUntilDue,omitempty"`
	DaysOverdue   *int   `json:"daysOverdue,omitempty"`
	DaysRemaining *int   `json:"daysRemaining,omitempty"`
}

type Runner interface {
	Run(ctx context.Context, action Action) (*Result, error)
}

type Engine struct {
	cycles      CycleReader
	members     UnpaidMemberFinder
	deactivator MemberDeactivator
	marks       NotificationLog
	notifier    notification.Notifier
	publisher   events.Publisher
	cfg         internal.DuesConfig
	logger      *slog.Logger
	now         func() time.Time
}

func NewEngine(
	cycles CycleReader,
	members UnpaidMemberFinder,
	deactivator MemberDeactivator,
	marks NotificationLog,
	notifier notification.Notifier,
	publisher events.Publisher,
	cfg internal.DuesConfig,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		cycles:      cycles,
		members:     members,
		deactivator: deactivator,
		marks:       marks,
		notifier:    notifier,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) Run(ctx context.Context, action Action) (*Result, error) {
	if !action.Valid() {
		return nil, internal.NewValidationFieldError("action",
			fmt.Sprintf("action must be one of: %s, %s, %s", ActionSendReminders, ActionSendOverdue, ActionEnforceGrace),
			internal.ErrCodeInvalidAction)
	}

	cycle, err := e.cycles.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	start := e.now()
	var res *Result
	switch action {
	case ActionSendReminders:
		res, err = e.sendReminders(ctx, cycle, start)
	case ActionSendOverdue:
		res, err = e.sendOverdue(ctx, cycle, start)
	case ActionEnforceGrace:
		res, err = e.enforceGrace(ctx, cycle, start)
	}
	if err != nil {
		e.logger.Error("DuesEngine: phase failed", "action", action, "cycle_id", cycle.ID, "error", err)
		return nil, err
	}

	e.logger.Info("DuesEngine: phase finished",
		"action", action,
		"cycle_id", cycle.ID,
		"message", res.Message,
		"failed", res.Failed,
		"skipped", res.Skipped,
		"duration", time.Since(start))
	return res, nil
}

// sendReminders only acts inside [end-(R+T), end-(R-T)] days, R being the
// reminder lead and T its tolerance.
func (e *Engine) sendReminders(ctx context.Context, cycle *Cycle, now time.Time) (*Result, error) {
	daysUntilDue := ceilDays(cycle.EndDate.Sub(now))
	res := &Result{Success: true, Action: ActionSendReminders, CycleID: cycle.ID, DaysUntilDue: &daysUntilDue}

	opens := cycle.EndDate.AddDate(0, 0, -(e.cfg.ReminderDays + e.cfg.ReminderToleranceDays))
	closes := cycle.EndDate.AddDate(0, 0, -(e.cfg.ReminderDays - e.cfg.ReminderToleranceDays))
	if now.Before(opens) || now.After(closes) {
		res.Sent = intPtr(0)
		res.Message = fmt.Sprintf("Not within reminder window (%d days until due)", daysUntilDue)
		return res, nil
	}

	recipients, err := e.members.ListUnpaidActive(ctx, cycle.ID)
	if err != nil {
		return nil, internal.NewExternalIOError("failed to load unpaid members", internal.ErrCodePersistenceFailed, err)
	}

	t := e.notifyAll(ctx, cycle, ActionSendReminders, recipients, now, func(r Recipient) (notification.Message, error) {
		return notification.RenderReminder(e.notice(cycle, r, func(n *notification.DuesNotice) {
			n.DaysUntilDue = daysUntilDue
		}))
	})
	t.fill(res)
	res.Message = fmt.Sprintf("Sent %d reminder(s)", *res.Sent)
	return res, nil
}

func (e *Engine) sendOverdue(ctx context.Context, cycle *Cycle, now time.Time) (*Result, error) {
	res := &Result{Success: true, Action: ActionSendOverdue, CycleID: cycle.ID}
	if !now.After(cycle.EndDate) {
		res.Sent = intPtr(0)
		res.DaysOverdue = intPtr(0)
		res.Message = "Dues are not overdue yet"
		return res, nil
	}

	daysOverdue := floorDays(now.Sub(cycle.EndDate))
	res.DaysOverdue = &daysOverdue
	graceLeft := ceilDays(cycle.EndDate.AddDate(0, 0, e.cfg.GraceDays).Sub(now))

	recipients, err := e.members.ListUnpaidActive(ctx, cycle.ID)
	if err != nil {
		return nil, internal.NewExternalIOError("failed to load unpaid members", internal.ErrCodePersistenceFailed, err)
	}

	t := e.notifyAll(ctx, cycle, ActionSendOverdue, recipients, now, func(r Recipient) (notification.Message, error) {
		return notification.RenderOverdue(e.notice(cycle, r, func(n *notification.DuesNotice) {
			n.DaysOverdue = daysOverdue
			n.GraceDaysLeft = max(graceLeft, 0)
		}))
	})
	t.fill(res)
	res.Message = fmt.Sprintf("Sent %d overdue notice(s)", *res.Sent)
	return res, nil
}

// enforceGrace inactivates first and notifies second; a failed notice never
// undoes the inactivation.
func (e *Engine) enforceGrace(ctx context.Context, cycle *Cycle, now time.Time) (*Result, error) {
	res := &Result{Success: true, Action: ActionEnforceGrace, CycleID: cycle.ID}
	cutoff := cycle.EndDate.AddDate(0, 0, e.cfg.GraceDays)
	if now.Before(cutoff) {
		remaining := ceilDays(cutoff.Sub(now))
		res.Inactivated = intPtr(0)
		res.DaysRemaining = &remaining
		res.Message = fmt.Sprintf("Grace period has %d day(s) remaining", remaining)
		return res, nil
	}

	recipients, err := e.members.ListUnpaidActive(ctx, cycle.ID)
	if err != nil {
		return nil, internal.NewExternalIOError("failed to load unpaid members", internal.ErrCodePersistenceFailed, err)
	}

	var t tally
	g := e.group()
	for _, r := range recipients {
		g.Go(func() error {
			e.inactivateOne(ctx, cycle, r, &t)
			return nil
		})
	}
	_ = g.Wait()

	inactivated := int(t.done.Load())
	res.Inactivated = &inactivated
	res.Failed = int(t.failed.Load())
	res.Skipped = int(t.skipped.Load())
	res.Message = fmt.Sprintf("Inactivated %d member(s)", inactivated)
	return res, nil
}

func (e *Engine) inactivateOne(ctx context.Context, cycle *Cycle, r Recipient, t *tally) {
	if err := e.deactivator.Deactivate(ctx, r.MemberID); err != nil {
		if errors.Is(err, internal.ErrInvalidMemberStatus) {
			t.skipped.Add(1)
			return
		}
		t.failed.Add(1)
		e.logger.Error("DuesEngine: failed to inactivate member", "member_id", r.MemberID, "cycle_id", cycle.ID, "error", err)
		return
	}
	t.done.Add(1)
	e.publish(ctx, events.NewMemberInactivatedEvent(r.MemberID, cycle.ID))

	msg, err := notification.RenderInactivated(e.notice(cycle, r, nil))
	if err != nil {
		e.logger.Error("DuesEngine: failed to render inactivation notice", "member_id", r.MemberID, "error", err)
		e.publish(ctx, events.NewDuesNotificationEvent(r.MemberID, string(ActionEnforceGrace), ResultFailed))
		return
	}
	if sent := e.notifier.Send(ctx, r.Email, msg.Subject, msg.HTML); !sent.Success {
		e.logger.Error("DuesEngine: inactivation notice failed", "member_id", r.MemberID, "cycle_id", cycle.ID, "error", sent.Error)
		e.publish(ctx, events.NewDuesNotificationEvent(r.MemberID, string(ActionEnforceGrace), ResultFailed))
		return
	}
	e.publish(ctx, events.NewDuesNotificationEvent(r.MemberID, string(ActionEnforceGrace), ResultSent))
}

type tally struct {
	done    atomic.Int64
	failed  atomic.Int64
	skipped atomic.Int64
}

func (t *tally) fill(res *Result) {
	sent := int(t.done.Load())
	res.Sent = &sent
	res.Failed = int(t.failed.Load())
	res.Skipped = int(t.skipped.Load())
}

func (e *Engine) notifyAll(
	ctx context.Context,
	cycle *Cycle,
	action Action,
	recipients []Recipient,
	now time.Time,
	render func(Recipient) (notification.Message, error),
) *tally {
	var t tally
	today := now.Format(time.DateOnly)
	g := e.group()
	for _, r := range recipients {
		g.Go(func() error {
			e.notifyOne(ctx, cycle, action, r, today, now, render, &t)
			return nil
		})
	}
	_ = g.Wait()
	return &t
}

func (e *Engine) notifyOne(
	ctx context.Context,
	cycle *Cycle,
	action Action,
	r Recipient,
	today string,
	now time.Time,
	render func(Recipient) (notification.Message, error),
	t *tally,
) {
	if e.cfg.DedupePerDay {
		last, err := e.marks.LastNotifiedOn(ctx, r.MemberID, cycle.ID, action)
		if err != nil {
			e.logger.Warn("DuesEngine: could not read notification marker", "member_id", r.MemberID, "action", action, "error", err)
		} else if last == today {
			t.skipped.Add(1)
			e.publish(ctx, events.NewDuesNotificationEvent(r.MemberID, string(action), ResultSkipped))
			return
		}
	}

	msg, err := render(r)
	if err != nil {
		t.failed.Add(1)
		e.logger.Error("DuesEngine: failed to render notice", "member_id", r.MemberID, "action", action, "error", err)
		e.publish(ctx, events.NewDuesNotificationEvent(r.MemberID, string(action), ResultFailed))
		return
	}

	if sent := e.notifier.Send(ctx, r.Email, msg.Subject, msg.HTML); !sent.Success {
		t.failed.Add(1)
		e.logger.Error("DuesEngine: notice failed", "member_id", r.MemberID, "action", action, "cycle_id", cycle.ID, "error", sent.Error)
		e.publish(ctx, events.NewDuesNotificationEvent(r.MemberID, string(action), ResultFailed))
		return
	}

	t.done.Add(1)
	e.publish(ctx, events.NewDuesNotificationEvent(r.MemberID, string(action), ResultSent))
	if err := e.marks.MarkNotified(ctx, r.MemberID, cycle.ID, action, today, now); err != nil {
		e.logger.Warn("DuesEngine: could not store notification marker", "member_id", r.MemberID, "action", action, "error", err)
	}
}

func (e *Engine) notice(cycle *Cycle, r Recipient, with func(*notification.DuesNotice)) notification.DuesNotice {
	n := notification.DuesNotice{
		FirstName: r.FirstName,
		Amount:    cycle.Amount,
		DueDate:   cycle.EndDate.Format(time.DateOnly),
	}
	if with != nil {
		with(&n)
	}
	return n
}

func (e *Engine) group() *errgroup.Group {
	g := &errgroup.Group{}
	limit := e.cfg.NotifyConcurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	return g
}

func (e *Engine) publish(ctx context.Context, event events.Event) {
	if e.publisher != nil {
		_ = e.publisher.Publish(ctx, event)
	}
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

func floorDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

func intPtr(v int) *int {
	return &v
}
