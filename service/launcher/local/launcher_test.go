package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/cpulaunch/service/launcher"
)

func TestLauncher_Launch(t *testing.T) {
	workDir := t.TempDir()
	testCases := []struct {
		description  string
		command      []string
		expectCode   int
		expectStdout string
		expectStderr string
		expectErr    bool
	}{
		{
			description:  "exit zero with output",
			command:      []string{"sh", "-c", "echo out; echo err >&2"},
			expectStdout: "out\n",
			expectStderr: "err\n",
		},
		{
			description: "non zero exit",
			command:     []string{"sh", "-c", "exit 3"},
			expectCode:  3,
		},
		{
			description:  "runs in working directory",
			command:      []string{"sh", "-c", "pwd"},
			expectStdout: workDir + "\n",
		},
		{
			description:  "positional parameters",
			command:      []string{"sh", "-c", "echo $0 $1", "first", "second"},
			expectStdout: "first second\n",
		},
		{
			description: "missing program",
			command:     []string{"cpulaunch-no-such-program"},
			expectErr:   true,
		},
		{
			description: "empty command",
			command:     nil,
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		proc, err := New().Launch(context.Background(), &launcher.Spec{Command: testCase.command, WorkDir: workDir})
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Greater(t, proc.PID(), 0, testCase.description)
		result, err := proc.Wait()
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectCode, result.ExitCode, testCase.description)
		if testCase.description == "runs in working directory" {
			resolved, _ := filepath.EvalSymlinks(workDir)
			assert.Contains(t, []string{workDir, resolved}, strings.TrimSpace(string(result.Stdout)), testCase.description)
			continue
		}
		assert.Equal(t, testCase.expectStdout, string(result.Stdout), testCase.description)
		assert.Equal(t, testCase.expectStderr, string(result.Stderr), testCase.description)
	}
}

func TestLauncher_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	marker := filepath.Join(t.TempDir(), "child.pid")
	proc, err := New().Launch(ctx, &launcher.Spec{
		Command: []string{"sh", "-c", "sleep 30 & echo $! > " + marker + "; wait"},
		WorkDir: os.TempDir(),
	})
	if !assert.NoError(t, err) {
		return
	}
	time.Sleep(200 * time.Millisecond)
	started := time.Now()
	cancel()
	result, err := proc.Wait()
	assert.NoError(t, err)
	assert.NotEqual(t, 0, result.ExitCode)
	assert.Less(t, time.Since(started), 10*time.Second)
}
