package domain

import "time"

// Article is one generated weather news item.
type Article struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Place       string    `json:"place"`
	Headline    string    `json:"headline"`
	Brief       string    `json:"brief,omitempty"`
	Narrative   string    `json:"narrative"`
	Summary     Summary   `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}
