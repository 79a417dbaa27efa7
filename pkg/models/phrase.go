package models

import "time"

// Phrase represents one sentence pair in the training catalog.
// Identity is the id: two phrases with identical text but different
// ids are distinct entries.
type Phrase struct {
	ID         int64     `json:"id" db:"id"`
	SourceText string    `json:"source_text" db:"source_text"` // English sentence
	TargetText string    `json:"target_text" db:"target_text"` // Portuguese sentence
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
