package models

import "time"

type ChatMessage struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Sender string    `json:"sender,omitempty"`
	SentAt time.Time `json:"sent_at"`
}
