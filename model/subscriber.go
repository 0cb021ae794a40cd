package model

import "time"

// Subscriber is a newsletter signup record.
type Subscriber struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
