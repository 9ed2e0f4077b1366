package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types carried on the queue.
const (
	TypeReceiptPosted = "receipt_posted"
	TypePassSold      = "pass_sold"
)

// Envelope wraps every published message so consumers can dispatch on
// type before decoding the payload.
type Envelope struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// ReceiptPostedMessage references a persisted receipt; the worker
// fetches the full record from the store.
type ReceiptPostedMessage struct {
	TicketID string `json:"ticket_id"`
	FeeCents int64  `json:"fee_cents"`
}

// PassSoldMessage carries a pass sale for downstream export.
type PassSoldMessage struct {
	PassID      string `json:"pass_id"`
	Kind        string `json:"kind"`
	Plate       string `json:"plate"`
	AmountCents int64  `json:"amount_cents"`
	SoldOn      string `json:"sold_on"` // YYYY-MM-DD
}

func newEnvelope(eventType string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Envelope{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   body,
	})
}

// DecodeEnvelope parses a raw delivery body.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("envelope missing type")
	}
	return &env, nil
}

// Decode unpacks the payload into the given message struct.
func (e *Envelope) Decode(into any) error {
	if err := json.Unmarshal(e.Payload, into); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}
