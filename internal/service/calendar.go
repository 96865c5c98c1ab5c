package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/stats"
)

// Calendar decides what "today" is for the configured time zone
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc, now: time.Now}
}

// Now returns the current instant in the configured zone
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the canonical date string of Now
func (c *Calendar) Today() string {
	return stats.Today(c.now(), c.loc)
}

// DateOrToday canonicalises a YYYY-MM-DD input. Blank means Today.
func (c *Calendar) DateOrToday(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return c.Today(), nil
	}
	day, ok := stats.ParseDate(date)
	if !ok {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return stats.FormatDate(day), nil
}
