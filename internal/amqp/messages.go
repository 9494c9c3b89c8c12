package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds carried on the mirror queue.
const (
	KindSync   = "sync"   // row created or edited, worker re-exports it
	KindDelete = "delete" // row removed from the ledger
)

// MirrorMessage tells the worker that a ledger row changed. It carries
// only the id; the worker fetches the current row from the database.
type MirrorMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncMessage(id int64) *MirrorMessage {
	return &MirrorMessage{Kind: KindSync, ID: id, Timestamp: time.Now()}
}

func NewDeleteMessage(id int64) *MirrorMessage {
	return &MirrorMessage{Kind: KindDelete, ID: id, Timestamp: time.Now()}
}

func (m *MirrorMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MirrorMessageFromJSON(data []byte) (*MirrorMessage, error) {
	var msg MirrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
