package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wallet/internal/core"
)

// RecordPayload is the wire form of a ledger record.
type RecordPayload struct {
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// SnapshotMessage carries the full record sequence of a ledger after a save.
// Consumers replace their copy with it; there is no partial update.
type SnapshotMessage struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Records   []RecordPayload `json:"records"`
}

// NewSnapshotMessage creates a snapshot with a fresh ID
func NewSnapshotMessage(source string, records []core.Record) *SnapshotMessage {
	payload := make([]RecordPayload, len(records))
	for i, r := range records {
		payload[i] = RecordPayload{
			Date:        r.Date,
			Category:    string(r.Category),
			Amount:      r.Amount,
			Description: r.Description,
		}
	}
	return &SnapshotMessage{
		ID:        uuid.NewString(),
		Source:    source,
		Timestamp: time.Now().UTC(),
		Records:   payload,
	}
}

// CoreRecords converts the payload back to ledger records, in order.
func (m *SnapshotMessage) CoreRecords() []core.Record {
	out := make([]core.Record, len(m.Records))
	for i, p := range m.Records {
		out[i] = core.NewRecord(p.Date, core.Category(p.Category), p.Amount, p.Description)
	}
	return out
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotMessageFromJSON creates a message from JSON bytes
func SnapshotMessageFromJSON(data []byte) (*SnapshotMessage, error) {
	var msg SnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(msg.ID); err != nil {
		return nil, fmt.Errorf("invalid snapshot id %q: %w", msg.ID, err)
	}
	return &msg, nil
}
