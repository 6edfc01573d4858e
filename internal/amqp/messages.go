package amqp

import (
	"encoding/json"
	"time"
)

// ReceiptsUpdatedMessage is the compact event published after a successful
// receipts refresh. Consumers that want the data itself call the dashboard.
type ReceiptsUpdatedMessage struct {
	Receipts  int       `json:"receipts"`
	Months    int       `json:"months"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReceiptsUpdatedMessage(receipts, months int) *ReceiptsUpdatedMessage {
	return &ReceiptsUpdatedMessage{
		Receipts:  receipts,
		Months:    months,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReceiptsUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReceiptsUpdatedMessageFromJSON creates a message from JSON bytes.
func ReceiptsUpdatedMessageFromJSON(data []byte) (*ReceiptsUpdatedMessage, error) {
	var msg ReceiptsUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
