package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdesk/internal/models"
)

func TestDisabledClientDropsMessages(t *testing.T) {
	client, err := NewNATSClient(Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.False(t, client.Connected())

	assert.NoError(t, client.Publish(models.SubjectRegistrationSubmitted, models.RegistrationSubmittedEvent{EventID: "ev-1"}))

	_, err = client.Subscribe(models.SubjectPaymentTracking, nil)
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = client.SubscribeQueue(models.SubjectPaymentTracking, "ledger", nil)
	assert.ErrorIs(t, err, ErrDisabled)

	assert.NoError(t, client.Close())
}
