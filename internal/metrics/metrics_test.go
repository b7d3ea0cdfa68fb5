// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRegistry(t *testing.T) {
	m := New()
	m.ObserveRegistry("search_author", "ok", 20*time.Millisecond)
	m.ObserveRegistry("search_author", "ok", 30*time.Millisecond)
	m.ObserveRegistry("search_author", "timeout", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegistryRequests.WithLabelValues("search_author", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryRequests.WithLabelValues("search_author", "timeout")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RegistryLatency))
}

func TestSetStageAndCache(t *testing.T) {
	m := New()
	m.SetStage("final", 12)
	m.SetStage("final", 14)
	m.ObserveCache("profile", "hit")
	m.ObserveDiscovery("openai", "ok")

	assert.Equal(t, 14.0, testutil.ToFloat64(m.StageResearchers.WithLabelValues("final")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("profile", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DiscoveryRequests.WithLabelValues("openai", "ok")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRegistry("x", "ok", time.Second)
	m.ObserveDiscovery("x", "ok")
	m.ObserveCache("x", "hit")
	m.SetStage("x", 1)
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.SetStage("discovered", 3)

	path := filepath.Join(t.TempDir(), "sauron.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sauron_pipeline_researchers{stage="discovered"} 3`)
}
