package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Weekday is a day-of-week name as stored in the database
// ("Monday" ... "Sunday"). Group classes and trainer availability
// recur weekly and live entirely in weekday space; dated training
// sessions cross into it through WeekdayOf.
type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

var ErrInvalidWeekday = errors.New("invalid weekday")

var weekdays = map[Weekday]time.Weekday{
	Sunday:    time.Sunday,
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
}

func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(s)
	if _, ok := weekdays[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
	return d, nil
}

// DOW returns the postgres EXTRACT(DOW ...) number, Sunday = 0.
func (d Weekday) DOW() int {
	return int(weekdays[d])
}

// WeekdayOf maps a calendar date to its weekday. This is the single
// point where date-based sessions and weekday-recurring schedules are
// reconciled; every conflict check between the two domains goes
// through here.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday().String())
}

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// At anchors a clock time onto a calendar date, in the date's location.
func At(date time.Time, t TimeOfDay) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}
