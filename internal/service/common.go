package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"commission-backend/internal/commission"
	"commission-backend/internal/model"
)

var (
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Notifier pushes live notifications to connected dashboards.
type Notifier interface {
	Notify(n model.Notification)
}

type noopNotifier struct{}

func (noopNotifier) Notify(model.Notification) {}

func orNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func invalid(msgs ...string) error {
	return &commission.ValidationError{Errors: msgs}
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, invalid(fmt.Sprintf("%s must be a valid id", field))
	}
	return id, nil
}

// canView reports whether actor may read a record owned by owner.
func canView(actor model.Actor, owner uuid.UUID) bool {
	return actor.Can(model.CapViewAllSales) || actor.ID == owner
}

// ownerScope restricts listings to the actor's own records unless the role
// sees everything. An explicit salesperson filter is honored for those roles.
func ownerScope(actor model.Actor, requested string) (*uuid.UUID, error) {
	if !actor.Can(model.CapViewAllSales) {
		id := actor.ID
		return &id, nil
	}
	if strings.TrimSpace(requested) == "" {
		return nil, nil
	}
	id, err := parseID("salesperson_id", requested)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDay parses an optional date filter. endOfDay moves it to the last
// instant of that day so the bound is inclusive.
func parseDay(field, raw string, endOfDay bool) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := commission.ParseDate(raw)
	if err != nil {
		return nil, invalid(fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field))
	}
	d := commission.CalendarDay(t)
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return &d, nil
}

func policyViolations(err error) []string {
	var pv *commission.PolicyViolation
	if errors.As(err, &pv) {
		return pv.Violations
	}
	return []string{err.Error()}
}
