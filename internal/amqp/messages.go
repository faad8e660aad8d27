package amqp

import (
	"encoding/json"
	"time"
)

// EntrySyncMessage is a lightweight message for mirroring a bookkeeping entry
// to Google Sheets. It carries only identifiers, the worker fetches the full
// row from the database.
type EntrySyncMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntrySyncMessage creates a new sync message for an appointment or expense
func NewEntrySyncMessage(kind string, id, tenantID int64) *EntrySyncMessage {
	return &EntrySyncMessage{
		Kind:      kind,
		ID:        id,
		TenantID:  tenantID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntrySyncMessageFromJSON creates a message from JSON bytes
func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
