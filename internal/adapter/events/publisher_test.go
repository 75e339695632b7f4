package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecowatch/ecoscore-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	ts := time.Date(2026, 8, 30, 15, 10, 0, 0, time.UTC)
	pred := domain.Prediction{
		ID:        42,
		Inputs:    domain.FeatureVector{PM25: 18.5, RecyclingPct: 33},
		Ecoscore:  412.875,
		Timestamp: ts,
	}

	msg, err := serializeToMessage(pred)
	require.NoError(t, err)

	assert.Equal(t, []byte("42"), msg.Key)
	assert.Contains(t, string(msg.Value), `"ecoscore":412.875`)
	assert.Contains(t, string(msg.Value), `"pm25":18.5`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "ecoscore", msg.Headers[0].Key)
	assert.Equal(t, []byte("412.875"), msg.Headers[0].Value)
	assert.Equal(t, "created_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(ts.Format(time.RFC3339)), msg.Headers[1].Value)
}
