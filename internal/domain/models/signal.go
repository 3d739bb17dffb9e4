package models

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Side is the direction of a trading signal.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// SignalMessage is the wire entity crossing the bus. It is created by the
// engine at publish time and immutable after that. Delivery is at-most-once:
// a message published while no subscriber is attached is gone.
type SignalMessage struct {
	AccountID   int64  `json:"account_id" validate:"required,gt=0"`
	AccountName string `json:"account_name" validate:"required"`
	Symbol      string `json:"symbol" validate:"required"`
	SignalType  Side   `json:"signal_type" validate:"required,oneof=BUY SELL"`
}

var validate = validator.New()

// Encode serializes the message for the bus.
func (m *SignalMessage) Encode() ([]byte, error) {
	if err := validate.Struct(m); err != nil {
		return nil, fmt.Errorf("validate signal message: %w", err)
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal signal message: %w", err)
	}
	return b, nil
}

// DecodeSignalMessage parses and validates a bus payload. Payloads missing a
// required field or carrying an unknown signal_type are rejected so the
// subscriber can discard them without dispatching.
func DecodeSignalMessage(b []byte) (*SignalMessage, error) {
	var m SignalMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal signal message: %w", err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("validate signal message: %w", err)
	}
	return &m, nil
}
