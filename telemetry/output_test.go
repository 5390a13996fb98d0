package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/config"
	"github.com/pthm-cable/micromachine/neural"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	assert.Nil(t, om)

	// Every method is safe on nil
	assert.NoError(t, om.WriteTrain(TrainRecord{}))
	assert.NoError(t, om.WriteTelemetry(WindowStats{}))
	assert.NoError(t, om.WritePerf("s", PerfStats{}, 0))
	assert.NoError(t, om.WriteConfig(nil))
	assert.Equal(t, "", om.Dir())
	assert.NoError(t, om.Close())
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	require.NoError(t, err)

	res := neural.TrainResult{Examples: 3, Iterations: 17, Loss: 0.4213, Converged: true, Duration: 2 * time.Millisecond}
	require.NoError(t, om.WriteTrain(NewTrainRecord("sess", 5, components.Left, res, 0.42)))
	require.NoError(t, om.WriteTrain(NewTrainRecord("sess", 9, components.Right, res, 0.42)))
	require.NoError(t, om.WriteTelemetry(WindowStats{SessionID: "sess", WindowEndTick: 600}))
	require.NoError(t, om.WritePerf("sess", PerfStats{}, 60))
	require.NoError(t, om.WritePerf("sess", PerfStats{}, 120))

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.NoError(t, om.WriteConfig(cfg))
	require.NoError(t, om.Close())

	train := readLines(t, filepath.Join(dir, "train.csv"))
	require.Len(t, train, 3)
	assert.True(t, strings.HasPrefix(train[0], "session,tick,label,examples,iterations"))
	assert.True(t, strings.HasPrefix(train[1], "sess,5,Left,3,17,"))
	assert.True(t, strings.HasPrefix(train[2], "sess,9,Right,3,17,"))

	assert.Len(t, readLines(t, filepath.Join(dir, "perf.csv")), 3)
	assert.Len(t, readLines(t, filepath.Join(dir, "telemetry.csv")), 2)

	reloaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cfg.Sensor, reloaded.Sensor)
}

func TestNewSessionIDUnique(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
