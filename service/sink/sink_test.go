package sink

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/go-logfmt/logfmt"
	"github.com/stretchr/testify/assert"
)

func decodeEntries(t *testing.T, data []byte) []map[string]string {
	var entries []map[string]string
	decoder := logfmt.NewDecoder(bytes.NewReader(data))
	for decoder.ScanRecord() {
		entry := map[string]string{}
		for decoder.ScanKeyval() {
			entry[string(decoder.Key())] = string(decoder.Value())
		}
		entries = append(entries, entry)
	}
	assert.NoError(t, decoder.Err())
	return entries
}

func TestSink_ConcurrentEntriesStayIntact(t *testing.T) {
	var buffer bytes.Buffer
	sink := New(&buffer)
	const workers, perWorker = 8, 50
	payload := strings.Repeat("x", 512)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger := sink.With("worker", w)
			for i := 0; i < perWorker; i++ {
				_ = level.Info(logger).Log("iteration", i, "stdout", payload+"\nsecond line")
			}
		}()
	}
	wg.Wait()

	entries := decodeEntries(t, buffer.Bytes())
	assert.Len(t, entries, workers*perWorker)
	for _, entry := range entries {
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, payload+"\nsecond line", entry["stdout"])
		assert.NotEmpty(t, entry["ts"])
	}
}

func TestSink_Levels(t *testing.T) {
	var buffer bytes.Buffer
	sink := New(&buffer)
	sink.Info("msg", "started")
	sink.Error("msg", "failed", "code", 2)
	entries := decodeEntries(t, buffer.Bytes())
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "info", entries[0]["level"])
		assert.Equal(t, "error", entries[1]["level"])
		assert.Equal(t, "2", entries[1]["code"])
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "app.log")
	assert.NoError(t, os.WriteFile(logFile, []byte("level=info msg=previous\n"), 0o644))

	testCases := []struct {
		description   string
		config        *Config
		expectFile    int
		expectConsole int
	}{
		{description: "quiet", config: &Config{Quiet: true, LogFile: logFile, Console: &bytes.Buffer{}}, expectFile: 1},
		{description: "file and console", config: &Config{LogFile: logFile, Console: &bytes.Buffer{}}, expectFile: 2, expectConsole: 1},
		{description: "console only", config: &Config{Console: &bytes.Buffer{}}, expectFile: 2, expectConsole: 1},
	}
	for _, testCase := range testCases {
		sink, err := Open(testCase.config)
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		sink.Info("msg", fmt.Sprintf("entry %s", testCase.description))
		assert.NoError(t, sink.Close(), testCase.description)
		assert.NoError(t, sink.Close(), testCase.description)

		data, err := os.ReadFile(logFile)
		assert.NoError(t, err)
		assert.Len(t, decodeEntries(t, data), testCase.expectFile, testCase.description)
		console := testCase.config.Console.(*bytes.Buffer)
		assert.Len(t, decodeEntries(t, console.Bytes()), testCase.expectConsole, testCase.description)
	}
}

func TestOpen_InvalidFile(t *testing.T) {
	_, err := Open(&Config{LogFile: filepath.Join(t.TempDir(), "missing", "app.log")})
	assert.Error(t, err)
}
