package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/loyalty-admin/internal/model"
)

func TestTierMessage(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	ev := model.TierEvent{
		ID:         "01J0000000000000000000000",
		Type:       model.TierUpserted,
		TierID:     "gold",
		Tier:       &model.MembershipTier{ID: "gold", Name: "Gold", RewardRate: 0.1, Color: "#FFD700"},
		OccurredAt: at,
	}

	msg, err := TierMessage(ev)
	require.NoError(t, err)
	assert.Equal(t, "gold", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "tier.upserted", string(msg.Headers[0].Value))

	var decoded model.TierEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ev, decoded)
}

func TestTierMessageDeleteOmitsTier(t *testing.T) {
	msg, err := TierMessage(model.TierEvent{Type: model.TierDeleted, TierID: "gold"})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &raw))
	assert.NotContains(t, raw, "tier")
	assert.Equal(t, "tier.deleted", raw["type"])
}
