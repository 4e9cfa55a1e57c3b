package amqp

import (
	"encoding/json"
	"time"
)

// TransactionEventMessage is the lightweight notification published after a
// transaction mutation commits. Consumers fetch the full record from storage
// by ID; deleted transactions only exist as the wallet reference.
type TransactionEventMessage struct {
	Action        string    `json:"action"` // transaction.created|updated|deleted
	TransactionID string    `json:"transactionId"`
	WalletID      string    `json:"walletId"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(action, transactionID, walletID string) *TransactionEventMessage {
	return &TransactionEventMessage{
		Action:        action,
		TransactionID: transactionID,
		WalletID:      walletID,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
