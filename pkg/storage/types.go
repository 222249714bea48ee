package storage

import "time"

// Change captures a single plan change for auditing or printing.
type Change struct {
	OccurredAt time.Time `json:"occurredAt"`
	PlanID     string    `json:"planId"`
	Week       int       `json:"week"`
	Opponent   string    `json:"opponent"`
	ChangeType string    `json:"changeType"` // added | updated | removed
}
