package model

// Character is a playable character combos are attributed to.
type Character struct {
	ID             uint64  `json:"characterID"`
	Name           string  `json:"name" validate:"notblank"`
	Vitality       int     `json:"vitality" validate:"gte=0"`
	Height         float64 `json:"height" validate:"gte=0"`
	Weight         float64 `json:"weight" validate:"gte=0"`
	Story          string  `json:"story" validate:"notblank"`
	Type           string  `json:"type" validate:"notblank"`
	EffectiveRange string  `json:"effectiveRange" validate:"notblank"`
	EaseOfUse      string  `json:"easeOfUse" validate:"notblank"`
	Avatar         string  `json:"avatar" validate:"http_url"`
	Thumbnail      string  `json:"thumbnail" validate:"http_url"`
	NumberOfCombos int     `json:"numberOfCombos" validate:"gte=0"`
	NumberOfLikes  int     `json:"numberOfLikes" validate:"gte=0"`
	NumberOfLovers int     `json:"numberOfLovers" validate:"gte=0"`
}
