package adapter

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	m "github.com/movemut/movemut/internal/model"
)

func exitError(t *testing.T, code int) error {
	t.Helper()

	err := exec.Command("sh", "-c", "exit "+strconv.Itoa(code)).Run()
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, code, exitErr.ExitCode())

	return err
}

func TestClassifyJudgeRun(t *testing.T) {
	t.Run("clean exit means every check passed", func(t *testing.T) {
		require.Equal(t, JudgePassed, ClassifyJudgeRun(nil, "Test result: OK"))
	})

	t.Run("nonzero exit means a check failed", func(t *testing.T) {
		require.Equal(t, JudgeFailed, ClassifyJudgeRun(exitError(t, 1), "Test result: FAILED"))
	})

	t.Run("compiler diagnostics mean a build failure", func(t *testing.T) {
		for _, output := range []string{
			"error[E04007]: incompatible types",
			"compilation error in module demo::counter",
			"Unable to resolve packages",
			"Failed to build package",
			"failed to compile sources",
		} {
			require.Equal(t, JudgeBuildFailed, ClassifyJudgeRun(exitError(t, 1), output))
		}
	})

	t.Run("a judge that never ran is internal", func(t *testing.T) {
		require.Equal(t, JudgeInternal, ClassifyJudgeRun(errors.New("executable not found"), ""))
	})
}

func TestCommandJudgeBuildArgv(t *testing.T) {
	t.Run("substitutes root and filter", func(t *testing.T) {
		judge := NewCommandJudge("aptos move test --package-dir {root} --filter {filter}")

		argv := judge.buildArgv("/tmp/ws", "bump")
		require.Equal(t, []string{"aptos", "move", "test", "--package-dir", "/tmp/ws", "--filter", "bump"}, argv)
	})

	t.Run("empty filter drops the preceding flag", func(t *testing.T) {
		judge := NewCommandJudge("aptos move test --package-dir {root} --filter {filter}")

		argv := judge.buildArgv("/tmp/ws", "")
		require.Equal(t, []string{"aptos", "move", "test", "--package-dir", "/tmp/ws"}, argv)
	})

	t.Run("embedded placeholder", func(t *testing.T) {
		judge := NewCommandJudge("check --dir={root}")

		argv := judge.buildArgv("/tmp/ws", "")
		require.Equal(t, []string{"check", "--dir=/tmp/ws"}, argv)
	})

	t.Run("embedded filter placeholder", func(t *testing.T) {
		judge := NewCommandJudge("check --dir={root} --filter={filter}")

		argv := judge.buildArgv("/tmp/ws", "bump")
		require.Equal(t, []string{"check", "--dir=/tmp/ws", "--filter=bump"}, argv)
	})

	t.Run("embedded filter placeholder dropped when empty", func(t *testing.T) {
		judge := NewCommandJudge("check --dir={root} --filter={filter}")

		argv := judge.buildArgv("/tmp/ws", "")
		require.Equal(t, []string{"check", "--dir=/tmp/ws"}, argv)
	})

	t.Run("empty command falls back to the default", func(t *testing.T) {
		judge := NewCommandJudge("   ")
		require.Equal(t, DefaultJudgeCommand, judge.command)
	})
}

func TestCommandJudgeRun(t *testing.T) {
	root := m.Path(t.TempDir())

	t.Run("passing command", func(t *testing.T) {
		result, err := NewCommandJudge("true").Judge(context.Background(), root, "")
		require.NoError(t, err)
		require.Equal(t, JudgePassed, result.Status)
	})

	t.Run("failing command", func(t *testing.T) {
		result, err := NewCommandJudge("false").Judge(context.Background(), root, "")
		require.NoError(t, err)
		require.Equal(t, JudgeFailed, result.Status)
	})

	t.Run("captures output", func(t *testing.T) {
		result, err := NewCommandJudge("echo mutant-survived").Judge(context.Background(), root, "")
		require.NoError(t, err)
		require.Contains(t, result.Output, "mutant-survived")
	})

	t.Run("cut off run reports the context error", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := NewCommandJudge("sleep 10").Judge(ctx, root, "")
		require.Error(t, err)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
