package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishWithoutConnection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background()) // equivalent of t.Context (Go 1.24)
	t.Cleanup(cancel)
	s := &Service{}

	assert.ErrorIs(t, s.Publish("alerts.zone_intrusion", map[string]string{"a": "b"}), ErrNotConnected)
	assert.False(t, s.IsConnected())
	assert.NoError(t, s.Shutdown(ctx))
}
