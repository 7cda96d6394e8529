package campaigns

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateFormat is the wire format for campaign dates.
const DateFormat = "2006-01-02"

// Date is a calendar date with no time component. JSON values are accepted
// either as plain "2006-01-02" strings or as RFC3339 timestamps, of which
// only the date part is meaningful.
type Date struct {
	time.Time
}

// NewDate builds a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(DateFormat, s); err == nil {
		*d = Date{t}
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return errors.Wrapf(err, "[Date.UnmarshalJSON] parse %q", s)
	}
	*d = Date{t}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateFormat) + `"`), nil
}

// Campaign is a time-bounded group of posts. Its lifecycle status is not
// stored; it is derived from the dates by the status package.
type Campaign struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   Date   `json:"start_date"`
	EndDate     Date   `json:"end_date"`
}
