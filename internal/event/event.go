package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeTokenRecorded Type = "token.recorded"
	TypeTokenRevoked  Type = "token.revoked"
	TypeTokensPruned  Type = "tokens.pruned"
	TypeUserCreated   Type = "user.created"
	TypeSellerCreated Type = "seller.created"
	TypeSellerDeleted Type = "seller.deleted"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
}

func New(t Type, actor string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actor,
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
