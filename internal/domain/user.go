package domain

import "github.com/google/uuid"

// User is a ticket purchaser
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
