// Package queue carries combo domain events over RabbitMQ: a publisher
// used by the combo service after commit, and a background consumer that
// appends each event to an audit log file.
package queue

import "time"

const comboQueueName = "combo.events"

// Event types, also used as the AMQP message type.
const (
	ComboCreated = "combo.created"
	ComboDeleted = "combo.deleted"
)

// ComboEvent describes a committed change to a combo. It carries enough
// detail for the audit log without querying the database.
type ComboEvent struct {
	Type        string `json:"type"`
	ComboID     uint64 `json:"combo_id"`
	ComboName   string `json:"combo_name,omitempty"`
	CharacterID uint64 `json:"character_id,omitempty"`
	OwnerID     uint64 `json:"owner_id"`
	ActorID     uint64 `json:"actor_id"`
	Slots       int    `json:"slots,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

// NewComboEvent stamps the event with the current UTC time.
func NewComboEvent(eventType string, comboID, ownerID, actorID uint64) ComboEvent {
	return ComboEvent{
		Type:       eventType,
		ComboID:    comboID,
		OwnerID:    ownerID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
