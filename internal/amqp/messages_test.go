package amqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionEventMessageJSON(t *testing.T) {
	msg := NewTransactionEventMessage("transaction.created", "tx-1", "w-1")
	assert.False(t, msg.Timestamp.IsZero())

	body, err := msg.ToJSON()
	require.NoError(t, err)

	decoded, err := TransactionEventMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, "transaction.created", decoded.Action)
	assert.Equal(t, "tx-1", decoded.TransactionID)
	assert.Equal(t, "w-1", decoded.WalletID)

	_, err = TransactionEventMessageFromJSON([]byte("not json"))
	assert.Error(t, err)
}
