// Package contract turns recovered contract tables into nomination records:
// row normalization, buyer/seller extraction, "days prior to" clause
// detection, and due-date assembly.
package contract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// CivilDate is a calendar date with no time or timezone component.
// Nomination arithmetic is plain day subtraction on civil dates, never on
// instants, so DST and locale cannot shift a due date.
type CivilDate struct {
	Year  int
	Month int
	Day   int
}

// ymdPattern is the strict Y/m/d form the date oracle is contracted to emit.
var ymdPattern = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)

// ParseYMD parses a date in Y/m/d form (e.g. 2025/8/16). The string must be
// exactly a date: no surrounding prose, and the components must name a real
// calendar day.
func ParseYMD(s string) (CivilDate, error) {
	m := ymdPattern.FindStringSubmatch(s)
	if m == nil {
		return CivilDate{}, fmt.Errorf("not a Y/m/d date: %q", s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	// Reject dates like 2025/2/30 that time.Date would silently normalize.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return CivilDate{}, fmt.Errorf("not a real calendar date: %q", s)
	}

	return CivilDate{Year: year, Month: month, Day: day}, nil
}

// DateOf truncates a time to its civil date.
func DateOf(t time.Time) CivilDate {
	return CivilDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// AddDays returns the date n whole days later (earlier for negative n),
// carrying across month and year boundaries.
func (d CivilDate) AddDays(n int) CivilDate {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Time returns midnight UTC of the date, for storage and comparison.
func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d CivilDate) Before(other CivilDate) bool {
	return d.Time().Before(other.Time())
}

// IsZero reports whether d is the zero date.
func (d CivilDate) IsZero() bool {
	return d == CivilDate{}
}

// String formats the date in Y/m/d form without zero padding, matching the
// oracle's output contract.
func (d CivilDate) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Year, d.Month, d.Day)
}

// MarshalJSON encodes the date as an ISO "YYYY-MM-DD" string.
func (d CivilDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time().Format("2006-01-02"))
}

// UnmarshalJSON decodes an ISO "YYYY-MM-DD" string.
func (d *CivilDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("not a YYYY-MM-DD date: %q", s)
	}
	*d = DateOf(t)
	return nil
}
