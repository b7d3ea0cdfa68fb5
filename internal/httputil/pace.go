// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across components: per-call
// deadlines, JSON GETs with status checking, failure classification, and
// pacing between consecutive calls to the same remote service.
package httputil

import (
	"context"
	"time"
)

// Pacer inserts a fixed delay between consecutive calls. The first call
// never waits. A zero Delay disables pacing.
//
// Pacer is not safe for concurrent use; the pipeline issues calls from a
// single goroutine.
type Pacer struct {
	Delay time.Duration

	called bool
}

// NewPacer returns a Pacer with the given delay.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{Delay: delay}
}

// Wait blocks for Delay if a previous call went through this Pacer. If the
// context is cancelled during the wait it returns ctx.Err().
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if !p.called {
		p.called = true
		return nil
	}
	if p.Delay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.Delay):
		return nil
	}
}
