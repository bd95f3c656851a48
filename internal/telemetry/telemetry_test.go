package telemetry

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerParsesLevel(t *testing.T) {
	logger := NewLogger("warn", false)
	require.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestNewLoggerFallsBackToInfoOnBadLevel(t *testing.T) {
	logger := NewLogger("not-a-level", false)
	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewLoggerDebugFlagForcesDebugLevel(t *testing.T) {
	logger := NewLogger("error", true)
	require.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestMetricsCountersIncrement(t *testing.T) {
	m := NewMetrics()
	m.PacketsSent.Inc()
	m.PacketsSent.Inc()
	m.BytesSent.Add(128)
	m.TickLead.Set(3)

	var buf bytes.Buffer
	m.WritePrometheus(&buf)

	out := buf.String()
	require.Contains(t, out, "factorio_packets_sent_total 2")
	require.Contains(t, out, "factorio_bytes_sent_total 128")
	require.Contains(t, out, "factorio_client_tick_lead 3")
}
