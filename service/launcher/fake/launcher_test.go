package fake

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/cpulaunch/service/launcher"
)

func TestLauncher(t *testing.T) {
	fake := New(func(ctx context.Context, spec *launcher.Spec) *launcher.Result {
		if spec.Command[0] == "false" {
			return &launcher.Result{ExitCode: 1, Stderr: []byte("nope")}
		}
		return &launcher.Result{Stdout: []byte(spec.WorkDir)}
	})

	proc, err := fake.Launch(context.Background(), &launcher.Spec{Command: []string{"true"}, WorkDir: "/w"})
	assert.NoError(t, err)
	result, err := proc.Wait()
	assert.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "/w", string(result.Stdout))

	failing, err := fake.Launch(context.Background(), &launcher.Spec{Command: []string{"false"}})
	assert.NoError(t, err)
	assert.NotEqual(t, proc.PID(), failing.PID())
	result, _ = failing.Wait()
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, 2, fake.Count())

	_, err = fake.Launch(context.Background(), &launcher.Spec{})
	assert.ErrorIs(t, err, launcher.ErrEmptyCommand)

	boom := errors.New("boom")
	fake.FailLaunch(boom)
	_, err = fake.Launch(context.Background(), &launcher.Spec{Command: []string{"true"}})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, fake.Count())
}
