package phase

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day in a window policy's timezone.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) Validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("clock hour must be between 0 and 23")
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("clock minute must be between 0 and 59")
	}

	return nil
}

// WindowPolicy is the canonical weekly schedule for a league's phases: which
// weekday a phase begins on, the wall-clock times of its boundaries, and the
// timezone those wall-clock times are read in. Provider start dates rarely land
// on the anchor weekday; the policy snaps them onto it.
type WindowPolicy struct {
	Timezone        string
	StartWeekday    time.Weekday
	StartTime       ClockTime
	EndTime         ClockTime
	PickLockWeekday time.Weekday
	PickLockTime    ClockTime
}

// DefaultWindowPolicy is the NFL-style week: Tuesday 02:00 through the next
// Tuesday 01:59, picks locking Sunday 13:00, all in the given timezone.
func DefaultWindowPolicy(timezone string) WindowPolicy {
	return WindowPolicy{
		Timezone:        timezone,
		StartWeekday:    time.Tuesday,
		StartTime:       ClockTime{Hour: 2},
		EndTime:         ClockTime{Hour: 1, Minute: 59},
		PickLockWeekday: time.Sunday,
		PickLockTime:    ClockTime{Hour: 13},
	}
}

func (p WindowPolicy) Validate() error {
	if p.Timezone == "" {
		return fmt.Errorf("window policy timezone is required")
	}
	if err := p.StartTime.Validate(); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if err := p.EndTime.Validate(); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if err := p.PickLockTime.Validate(); err != nil {
		return fmt.Errorf("pick lock time: %w", err)
	}

	return nil
}

// WindowCalculator computes canonical phase boundaries from arbitrary seed
// dates. Pure computation, no I/O beyond the timezone load at construction.
type WindowCalculator struct {
	policy WindowPolicy
	loc    *time.Location
}

func NewWindowCalculator(policy WindowPolicy) (*WindowCalculator, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid window policy: %w", err)
	}
	loc, err := time.LoadLocation(policy.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", policy.Timezone, err)
	}

	return &WindowCalculator{policy: policy, loc: loc}, nil
}

func (c *WindowCalculator) Policy() WindowPolicy {
	return c.policy
}

// Start snaps the seed date onto the policy's anchor weekday within the seed's
// Sunday-based calendar week and returns the anchor weekday at the start
// wall-clock time, as a UTC instant. The weekday offset is anchor minus current
// in both directions, so a seed after the anchor moves backward and a seed
// before it moves forward; a seed already on the anchor stays put, which makes
// repeated application a no-op.
func (c *WindowCalculator) Start(seed time.Time) time.Time {
	local := seed.In(c.loc)
	offset := int(c.policy.StartWeekday) - int(local.Weekday())
	anchored := local.AddDate(0, 0, offset)

	return c.at(anchored, c.policy.StartTime).UTC()
}

// End is the start's calendar date plus seven days at the end wall-clock time.
// The DST offset is resolved on the end date itself, not carried over from the
// start, so a window spanning a transition keeps its wall-clock boundary.
func (c *WindowCalculator) End(start time.Time) time.Time {
	local := start.In(c.loc).AddDate(0, 0, 7)

	return c.at(local, c.policy.EndTime).UTC()
}

// PickLock is the first occurrence of the pick-lock weekday on or after the
// start's calendar date, at the pick-lock wall-clock time.
func (c *WindowCalculator) PickLock(start time.Time) time.Time {
	local := start.In(c.loc)
	offset := (int(c.policy.PickLockWeekday) - int(local.Weekday()) + 7) % 7
	anchored := local.AddDate(0, 0, offset)

	return c.at(anchored, c.policy.PickLockTime).UTC()
}

// Window computes all three boundaries from one seed date.
func (c *WindowCalculator) Window(seed time.Time) (start, end, pickLock time.Time) {
	start = c.Start(seed)
	return start, c.End(start), c.PickLock(start)
}

func (c *WindowCalculator) at(day time.Time, clock ClockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour, clock.Minute, 0, 0, c.loc)
}
