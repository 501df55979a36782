package event

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRabbitMQEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Fails without connection", func(t *testing.T) {
		pub, err := NewRabbitMQEventPublisher(nil, "console-bank", logger)
		assert.Nil(t, pub)
		assert.EqualError(t, err, "RabbitMQ connection cannot be nil")
	})
}

func TestEncode(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	evt := TransactionPostedEvent{
		Timestamp: ts,
		Payload: TransactionPayload{
			TransactionID: "tx-1",
			AccountNumber: "AC000001",
			Type:          "DEPOSIT",
			Amount:        "100.00",
			Note:          "Initial Deposit",
			Timestamp:     ts,
		},
	}

	body, err := encode(evt)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	payload := decoded["payload"].(map[string]interface{})
	assert.Equal(t, "AC000001", payload["accountNumber"])
	assert.Equal(t, "100.00", payload["amount"])
	assert.Equal(t, "DEPOSIT", payload["type"])
	assert.Equal(t, "2026-01-02T03:04:05Z", decoded["timestamp"])

	_, err = encode(func() {})
	assert.Error(t, err, "Unsupported payloads should fail to encode")
}
