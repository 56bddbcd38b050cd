package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
)

func sampleStats() []collection.SeriesStats {
	m := collection.NewModel([]*collection.Card{
		{ID: "A1", SeriesName: "ROMANCE DAWN- [OP-01]"},
		{ID: "A2", SeriesName: "ROMANCE DAWN- [OP-01]"},
		{ID: "S1", SeriesName: "Starter Deck- [ST-01]"},
	})
	m.ApplyProgress(map[string]int{"A1": 3})
	return m.Completion()
}

func TestWriteCompletionChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCompletionChart(&buf, sampleStats()))

	out := buf.String()
	assert.Contains(t, out, ChartTitle)
	assert.Contains(t, out, "OP-01")
	assert.Contains(t, out, "ST-01")
}

func TestWriteCompletionTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCompletionTable(&buf, sampleStats()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "CODE"))
	assert.Contains(t, lines[1], "OP-01")
	assert.Contains(t, lines[1], "50.0%")
	assert.Contains(t, lines[2], "0.0%")
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "cmd"},
	}
	for _, tt := range tests {
		cmd, err := browserCommand(tt.goos, "/tmp/report.html")
		require.NoError(t, err, tt.goos)
		assert.Equal(t, tt.want, filepath.Base(cmd.Args[0]), tt.goos)
		assert.Equal(t, "/tmp/report.html", cmd.Args[len(cmd.Args)-1])
	}

	_, err := browserCommand("plan9", "/tmp/report.html")
	assert.Error(t, err)
}
