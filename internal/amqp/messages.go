package amqp

import (
	"encoding/json"
	"time"
)

// Ledger change operations carried on the wire.
const (
	OpCreated = "created"
	OpDeleted = "deleted"
)

// LedgerChangedMessage tells workers that a transaction changed. It carries
// only the id and the affected month; consumers reload whatever they need
// from the database.
type LedgerChangedMessage struct {
	Op        string    `json:"op"`
	ID        string    `json:"id"`
	Month     string    `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(op, id, month string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Op:        op,
		ID:        id,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReportRequestMessage asks the export worker to build and push the monthly
// report for one month.
type ReportRequestMessage struct {
	Month     string    `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportRequestMessage(month string) *ReportRequestMessage {
	return &ReportRequestMessage{
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
