package nodes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcal/internal/agent"
	"smartcal/internal/storage"
)

func TestEvaluateNode(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	node := NewEvaluateNode(st, 50, 2, 30*time.Minute, storage.NewNoopCooldown())

	// No observations yet
	output, err := node.Execute(ctx, agent.NodeInput{})
	require.NoError(t, err)
	assert.Equal(t, false, output.Data["sustained"])
	assert.Equal(t, 0, output.Data["warm_count"])
	assert.Equal(t, false, output.Data["cooling_down"])

	now := time.Now().UTC().Truncate(time.Second)
	_, err = st.InsertObservation(ctx, now.Add(-40*time.Minute), 54.0, true)
	require.NoError(t, err)
	_, err = st.InsertObservation(ctx, now.Add(-10*time.Minute), 56.0, true)
	require.NoError(t, err)

	output, err = node.Execute(ctx, agent.NodeInput{})
	require.NoError(t, err)
	assert.Equal(t, true, output.Data["sustained"])
	assert.Equal(t, 2, output.Data["warm_count"])
	assert.Equal(t, false, output.Data["cooling_down"])
}

func TestEvaluateNodeHoldsDuringCooldown(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	_, err := st.InsertObservation(ctx, now.Add(-40*time.Minute), 54.0, true)
	require.NoError(t, err)
	_, err = st.InsertObservation(ctx, now.Add(-10*time.Minute), 56.0, true)
	require.NoError(t, err)

	cooldown := &memCooldown{marked: true}
	node := NewEvaluateNode(st, 50, 2, 30*time.Minute, cooldown)

	output, err := node.Execute(ctx, agent.NodeInput{})
	require.NoError(t, err)

	// Still sustained, but the spell already triggered a reminder
	assert.Equal(t, true, output.Data["sustained"])
	assert.Equal(t, true, output.Data["cooling_down"])
}
