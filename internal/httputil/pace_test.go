// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_FirstCallDoesNotWait(t *testing.T) {
	p := NewPacer(time.Hour)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPacer_SecondCallWaits(t *testing.T) {
	p := NewPacer(30 * time.Millisecond)

	require.NoError(t, p.Wait(context.Background()))
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPacer_ZeroDelay(t *testing.T) {
	p := NewPacer(0)

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
}

func TestPacer_ContextCancelled(t *testing.T) {
	p := NewPacer(500 * time.Millisecond)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPacer_DelayChangeAppliesToNextWait(t *testing.T) {
	p := NewPacer(time.Hour)
	require.NoError(t, p.Wait(context.Background()))

	p.Delay = 30 * time.Millisecond
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestPacer_Nil(t *testing.T) {
	var p *Pacer
	assert.NoError(t, p.Wait(context.Background()))
}
