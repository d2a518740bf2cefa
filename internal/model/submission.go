package model

// ComboSubmission is the request body of a combo creation. Inputs[i] is
// the input group of Positions[i]; both arrays must be present, and
// their lengths are matched by a struct-level rule in package validation.
type ComboSubmission struct {
	Combo     ComboFields      `json:"combo"`
	Positions []PositionFields `json:"positions" validate:"required,dive"`
	Inputs    [][]InputFields  `json:"inputs" validate:"required,dive,dive"`
}

// ComboFields carries the combo's own attributes. Any owner sent by the
// client is not part of the contract; the owner is the authenticated user.
type ComboFields struct {
	CharacterID int64  `json:"characterID" validate:"min=1"`
	ComboName   string `json:"comboName" validate:"notblank"`
}

type PositionFields struct {
	PositionName string `json:"positionName" validate:"notblank"`
}

type InputFields struct {
	InputName string `json:"inputName" validate:"notblank"`
	InputSrc  string `json:"inputSrc" validate:"http_url"`
}
