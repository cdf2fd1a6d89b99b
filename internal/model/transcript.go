package model

import "time"

// Transcript is one answered chat turn kept for the history view.
type Transcript struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Sources   []string  `gorm:"serializer:json;type:text" json:"sources"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
