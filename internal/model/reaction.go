package model

import "time"

// Reaction is a favorite or like row: a (user, combo) pair.
type Reaction struct {
	UserID    uint64    `json:"userID"`
	ComboID   uint64    `json:"comboID"`
	CreatedAt time.Time `json:"createdAt"`
}
