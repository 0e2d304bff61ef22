// Package validity computes membership validity windows on calendar days.
// A window is inclusive on both ends: a package started on its start date
// with a duration of N days expires at the end of day start+(N-1).
package validity

import (
	"studiogate/pkg/domain"
	dErrors "studiogate/pkg/domain-errors"
)

// Window is the resolved validity of a package assignment, evaluated
// against a reference day.
type Window struct {
	Start         domain.Date `json:"start"`
	Expiry        domain.Date `json:"expiry"`
	Expired       bool        `json:"expired"`
	DaysRemaining int         `json:"days_remaining"`
}

// Compute resolves the validity window for a package that started on start
// and runs for durationDays, judged as of the ref day. DaysRemaining counts
// whole days from ref to expiry inclusive of the expiry day, and is zero
// once the window has lapsed.
func Compute(start domain.Date, durationDays int, ref domain.Date) (Window, error) {
	if start.IsZero() {
		return Window{}, dErrors.New(dErrors.CodeInvalidInput, "package start date is required")
	}
	if ref.IsZero() {
		return Window{}, dErrors.New(dErrors.CodeInvalidInput, "reference date is required")
	}
	if durationDays < 1 {
		return Window{}, dErrors.New(dErrors.CodeInvalidInput, "package duration must be at least one day")
	}

	expiry := start.AddDays(durationDays - 1)
	w := Window{
		Start:  start,
		Expiry: expiry,
	}
	if ref.After(expiry) {
		w.Expired = true
		return w, nil
	}
	w.DaysRemaining = ref.DaysUntil(expiry)
	return w, nil
}

// CoversDay reports whether day falls inside the window, start and expiry
// inclusive.
func (w Window) CoversDay(day domain.Date) bool {
	return !day.Before(w.Start) && !day.After(w.Expiry)
}
