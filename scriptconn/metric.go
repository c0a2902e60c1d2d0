package scriptconn

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// ConnectionMetrics contains atomic metrics for a scripting connection.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ConnectionMetrics struct {
	// ConnectAttemptCount indicates the number of dial attempts.
	ConnectAttemptCount atomic.Uint64
	// ConnRetryGauge indicates the number of retries of the current connect call.
	ConnRetryGauge atomic.Uint32

	// CommandSendCount indicates the number of command lines sent.
	CommandSendCount atomic.Uint64
	// CommandOKCount indicates the number of replies with the ok outcome.
	CommandOKCount atomic.Uint64
	// CommandErrCount indicates the number of replies with the error outcome.
	CommandErrCount atomic.Uint64
	// MalformedReplyCount indicates the number of replies that broke the framing rules.
	MalformedReplyCount atomic.Uint64
	// DataLineRecvCount indicates the number of data lines received.
	DataLineRecvCount atomic.Uint64

	// commandCounts holds the number of lines sent per command name.
	commandCounts *xsync.MapOf[string, *atomic.Uint64]
}

func newConnectionMetrics() *ConnectionMetrics {
	return &ConnectionMetrics{
		commandCounts: xsync.NewMapOf[string, *atomic.Uint64](),
	}
}

// CommandCount returns the number of lines sent for the command name, e.g. "Ascii".
func (m *ConnectionMetrics) CommandCount(name string) uint64 {
	if v, ok := m.commandCounts.Load(name); ok {
		return v.Load()
	}

	return 0
}

// CommandCounts returns a snapshot of the per command counters.
func (m *ConnectionMetrics) CommandCounts() map[string]uint64 {
	counts := make(map[string]uint64, m.commandCounts.Size())
	m.commandCounts.Range(func(name string, v *atomic.Uint64) bool {
		counts[name] = v.Load()
		return true
	})

	return counts
}

func (m *ConnectionMetrics) incConnectAttemptCount() {
	m.ConnectAttemptCount.Add(1)
}

func (m *ConnectionMetrics) incConnRetryGauge() {
	m.ConnRetryGauge.Add(1)
}

func (m *ConnectionMetrics) resetConnRetryGauge() {
	m.ConnRetryGauge.Store(0)
}

func (m *ConnectionMetrics) incCommandSendCount(name string) {
	m.CommandSendCount.Add(1)

	counter, _ := m.commandCounts.LoadOrCompute(name, func() *atomic.Uint64 {
		return &atomic.Uint64{}
	})
	counter.Add(1)
}

func (m *ConnectionMetrics) incCommandOKCount() {
	m.CommandOKCount.Add(1)
}

func (m *ConnectionMetrics) incCommandErrCount() {
	m.CommandErrCount.Add(1)
}

func (m *ConnectionMetrics) incMalformedReplyCount() {
	m.MalformedReplyCount.Add(1)
}

func (m *ConnectionMetrics) addDataLineRecvCount(n int) {
	m.DataLineRecvCount.Add(uint64(n)) //nolint:gosec // n is a slice length
}
