/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type mockT struct {
	Failed bool
	Format string
	Args   []interface{}
}

func (t *mockT) FailNow() {
	t.Failed = true
}

func (t *mockT) Errorf(format string, args ...interface{}) {
	t.Format, t.Args = format, args
}

func TestRequireSamplesCountInHistogram(t *testing.T) {
	eventsHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "events", Buckets: []float64{1, 10, 20, 30, 40, 50}})
	eventsHistogram.Observe(42)

	mt := &mockT{}
	RequireSamplesCountInHistogram(mt, eventsHistogram, 0)
	require.True(t, mt.Failed)

	mt = &mockT{}
	RequireSamplesCountInHistogram(mt, eventsHistogram, 1)
	require.False(t, mt.Failed)
}

func TestRequireGaugeValue(t *testing.T) {
	queueGauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "queue_length"})
	queueGauge.Set(7)

	mt := &mockT{}
	RequireGaugeValue(mt, queueGauge, 8)
	require.True(t, mt.Failed)

	mt = &mockT{}
	RequireGaugeValue(mt, queueGauge, 7)
	require.False(t, mt.Failed)
}
