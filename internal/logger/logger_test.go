package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetState restores the package defaults after a test.
func resetState() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestVerboseToggle(t *testing.T) {
	defer resetState()

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebugAndInfo_RequireVerbose(t *testing.T) {
	defer resetState()

	var buf bytes.Buffer
	SetOutput(&buf)

	SetVerbose(false)
	Debug("routing %s", "query")
	Info("indexed %d chunks", 3)
	assert.Zero(t, buf.Len(), "debug and info should be silent without verbose")

	SetVerbose(true)
	Debug("routing %s", "query")
	Info("indexed %d chunks", 3)
	assert.Equal(t, "[DEBUG] routing query\n[INFO] indexed 3 chunks\n", buf.String())
}

func TestWarn_AlwaysPrints(t *testing.T) {
	defer resetState()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("warehouse unavailable: %v", os.ErrNotExist)

	assert.Equal(t, "[WARN] warehouse unavailable: file does not exist\n", buf.String())
}

func TestSection(t *testing.T) {
	defer resetState()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Classification")

	assert.Equal(t, "\n=== Classification ===\n", buf.String())
}

func TestSection_SilentWithoutVerbose(t *testing.T) {
	defer resetState()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Section("Classification")

	assert.Zero(t, buf.Len())
}

func TestConcurrentAccess(t *testing.T) {
	defer resetState()

	var buf bytes.Buffer
	SetOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("worker %d", n)
			Warn("worker %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
	// Passes if the race detector stays quiet.
}
