package domain

import "time"

// QueryLog records one natural-language query and how it was interpreted.
type QueryLog struct {
	ID        string    `json:"id"         db:"id"`
	Query     string    `json:"query"      db:"query"`
	Mode      string    `json:"mode"       db:"mode"` // semantic, keyword, default
	Weights   string    `json:"weights"    db:"weights"`
	IP        string    `json:"ip"         db:"ip"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
