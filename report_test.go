package membw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTimes(samples []float64) Times {
	var times Times
	for k := range times {
		times[k] = append([]float64(nil), samples...)
	}
	return times
}

func TestSummarizeBandwidthScenario(t *testing.T) {
	// 8-byte elements, 10M element buffers, min Copy time 0.01s:
	// 1e-6 * 2*8*10,000,000 / 0.01 = 16,000 MB/s.
	bufBytes := int64(8 * 10_000_000)

	// Repetition 0 is absurdly slow on purpose: it must be excluded.
	times := scenarioTimes([]float64{5.0, 0.04, 0.01, 0.02, 0.03})
	s := Summarize(times, bufBytes)

	assert.InDelta(t, 16000.0, s[Copy].BestMBps, 1e-9)
	assert.InDelta(t, 16000.0, s[Scale].BestMBps, 1e-9)
	assert.InDelta(t, 24000.0, s[Add].BestMBps, 1e-9)
	assert.InDelta(t, 24000.0, s[Triad].BestMBps, 1e-9)

	assert.Equal(t, 0.01, s[Copy].MinTime)
	assert.Equal(t, 0.04, s[Copy].MaxTime)
	assert.InDelta(t, 0.025, s[Copy].AvgTime, 1e-12)
}

func TestWriteTableLayout(t *testing.T) {
	times := scenarioTimes([]float64{1.0, 0.02, 0.01})
	var buf bytes.Buffer
	WriteTable(&buf, Summarize(times, 8*10_000_000))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1+NumKernels)
	assert.Equal(t, "Function    Best Rate MB/s  Avg time     Min time     Max time", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Copy:"))
	assert.True(t, strings.HasPrefix(lines[2], "Scale:"))
	assert.True(t, strings.HasPrefix(lines[3], "Add:"))
	assert.True(t, strings.HasPrefix(lines[4], "Triad:"))

	// Fixed-width rows: every data row lines up.
	for _, line := range lines[1:] {
		assert.Len(t, line, len(lines[1]))
	}
}
