package processor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/cpulaunch/policy"
	"github.com/viant/cpulaunch/progress"
	"github.com/viant/cpulaunch/runtime/execution"
	"github.com/viant/cpulaunch/service/executor"
	"github.com/viant/cpulaunch/service/launcher"
	"github.com/viant/cpulaunch/service/launcher/fake"
)

// handler dispatches on the program name: "sleep", "fail" or "block".
func handler(ctx context.Context, spec *launcher.Spec) *launcher.Result {
	switch spec.Command[len(spec.Command)-1] {
	case "fail":
		time.Sleep(20 * time.Millisecond)
		return &launcher.Result{ExitCode: 1, Stderr: []byte("failed")}
	case "block":
		select {
		case <-ctx.Done():
			return &launcher.Result{ExitCode: 137}
		case <-time.After(300 * time.Millisecond):
			return &launcher.Result{}
		}
	}
	time.Sleep(200 * time.Millisecond)
	return &launcher.Result{Stdout: []byte("slept")}
}

func units(commands map[string]int) []*execution.Unit {
	var result []*execution.Unit
	i := 0
	for command, repeat := range commands {
		result = append(result, &execution.Unit{ID: fmt.Sprintf("task_%d/%d", i, i), TaskIndex: i, CPUSet: fmt.Sprint(i), Command: command, Repeat: repeat})
		i++
	}
	return result
}

func TestService_RunConcurrently(t *testing.T) {
	launcherFake := fake.New(handler)
	srv := New(WithExecutor(executor.NewService(executor.WithLauncher(launcherFake))))
	ctx, tracker := progress.WithNewTracker(context.Background(), "run", "test", nil)

	started := time.Now()
	err := srv.Run(ctx, []*execution.Unit{
		{ID: "task_0/0", CPUSet: "0", Command: "sleep", Repeat: 1},
		{ID: "task_1/1", CPUSet: "1", Command: "sleep", Repeat: 1},
	})
	elapsed := time.Since(started)

	assert.NoError(t, err)
	assert.Equal(t, 2, launcherFake.Count())
	assert.Less(t, elapsed, 380*time.Millisecond)
	snapshot := tracker.Snapshot()
	assert.Equal(t, 2, snapshot.TotalUnits)
	assert.Equal(t, 2, snapshot.DoneUnits)
	assert.Equal(t, 0, snapshot.RunningUnits)
	assert.Equal(t, 2, snapshot.Iterations)
}

func TestService_RunFailure(t *testing.T) {
	testCases := []struct {
		description      string
		mode             string
		expectIterations int
		expectMinElapsed time.Duration
	}{
		{description: "abort kills sibling", mode: policy.ModeAbort, expectIterations: 1},
		{description: "drain lets sibling finish its iteration", mode: policy.ModeDrain, expectIterations: 2, expectMinElapsed: 250 * time.Millisecond},
	}
	for _, testCase := range testCases {
		launcherFake := fake.New(handler)
		srv := New(WithExecutor(executor.NewService(executor.WithLauncher(launcherFake))))
		ctx := policy.WithPolicy(context.Background(), &policy.Policy{OnFailure: testCase.mode})
		ctx, tracker := progress.WithNewTracker(ctx, "run", "test", nil)

		started := time.Now()
		err := srv.Run(ctx, units(map[string]int{"fail": 1, "block": -1}))
		elapsed := time.Since(started)

		assert.True(t, errors.Is(err, executor.ErrProcessFailed), "%s: %v", testCase.description, err)
		assert.Equal(t, 2, launcherFake.Count(), testCase.description)
		assert.GreaterOrEqual(t, elapsed, testCase.expectMinElapsed, testCase.description)
		snapshot := tracker.Snapshot()
		assert.Equal(t, 1, snapshot.FailedUnits, testCase.description)
		assert.Equal(t, 1, snapshot.CancelledUnits, testCase.description)
		assert.Equal(t, 0, snapshot.RunningUnits, testCase.description)
		assert.Equal(t, testCase.expectIterations, snapshot.Iterations, testCase.description)
	}
}

func TestService_RunNoUnits(t *testing.T) {
	assert.NoError(t, New().Run(context.Background(), nil))
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		description string
		err         error
		expect      execution.UnitState
	}{
		{description: "success", expect: execution.UnitStateDone},
		{description: "cancelled", err: fmt.Errorf("unit x cancelled: %w", context.Canceled), expect: execution.UnitStateCancelled},
		{description: "failure", err: executor.ErrProcessFailed, expect: execution.UnitStateFailed},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Classify(testCase.err), testCase.description)
	}
}
