package model

import "time"

// Combo is an owned, named sequence of position slots for a character.
// Slots are ordered by their ordinal; each slot carries its inputs in
// submission order.
type Combo struct {
	ID          uint64    `json:"comboID"`     // combos.id
	CharacterID uint64    `json:"characterID"` // combos.character_id
	UserID      uint64    `json:"userID"`      // combos.user_id (owner)
	Name        string    `json:"comboName"`   // combos.name
	CreatedAt   time.Time `json:"createdAt"`   // combos.created_at
	Slots       []Slot    `json:"positions"`
	LikeCount   int64     `json:"likeCount"`
	// Viewer-scoped flags, only present when a viewer identity is known.
	IsFavorite *bool `json:"isFavorite,omitempty"`
	IsLiked    *bool `json:"isLiked,omitempty"`
}

// Slot is one ordinal position within a combo (combo_slots row joined
// with its catalog position).
type Slot struct {
	Ordinal      int     `json:"ordinal"`      // combo_slots.ordinal
	PositionID   uint64  `json:"positionID"`   // combo_slots.position_id
	PositionName string  `json:"positionName"` // positions.name
	Inputs       []Input `json:"inputs"`
}

// Position is a catalog row reused across combos.
type Position struct {
	ID   uint64 `json:"positionID"`   // positions.id
	Name string `json:"positionName"` // positions.name
}

// Input is a catalog input action.
type Input struct {
	ID   uint64 `json:"inputID"`   // inputs.id
	Name string `json:"inputName"` // inputs.name
	Src  string `json:"inputSrc"`  // inputs.src
}
