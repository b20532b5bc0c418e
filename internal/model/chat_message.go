package model

import "time"

// ChatMessage is one line of the travel-chat transcript, persisted
// asynchronously by the transcript worker. Role is "user" or "model".
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
