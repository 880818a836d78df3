package dto

import (
	"net/url"
	"time"
)

// DateRange is an inclusive range in YYYY-MM-DD.
type DateRange struct {
	StartDate string
	EndDate   string
}

// Today returns a range covering only the current local day.
func Today(now time.Time) DateRange {
	d := now.Format("2006-01-02")
	return DateRange{StartDate: d, EndDate: d}
}

// Values encodes start_date / end_date.
func (r DateRange) Values() url.Values {
	v := url.Values{}
	if r.StartDate != "" {
		v.Set("start_date", r.StartDate)
	}
	if r.EndDate != "" {
		v.Set("end_date", r.EndDate)
	}
	return v
}
