package entity

import "time"

// Note is a free-text memo kept by the shop staff.
type Note struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
}
