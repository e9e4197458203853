package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	m "github.com/movemut/movemut/internal/model"
)

// JudgeStatus is the structured outcome of one judge invocation.
type JudgeStatus int

const (
	// JudgePassed means every check passed despite the mutation.
	JudgePassed JudgeStatus = iota
	// JudgeFailed means at least one check failed.
	JudgeFailed
	// JudgeBuildFailed means the mutated package did not compile.
	JudgeBuildFailed
	// JudgeInternal means the judge itself misbehaved.
	JudgeInternal
)

// JudgeResult carries the classified status plus the raw diagnostic output.
type JudgeResult struct {
	Status JudgeStatus
	Output string
}

// JudgeAdapter invokes the external verifier/test runner against a
// materialized package copy. Implementations must be safe for concurrent use.
type JudgeAdapter interface {
	// Judge runs the checks for the package at root, restricted to filter
	// when non-empty. The context bounds the run; a context error means the
	// judge was cut off, not that it failed.
	Judge(ctx context.Context, root m.Path, filter string) (JudgeResult, error)
}

// Placeholders substituted into the judge command template.
const (
	judgeRootPlaceholder   = "{root}"
	judgeFilterPlaceholder = "{filter}"
)

// DefaultJudgeCommand runs the Move unit tests of the package under test.
const DefaultJudgeCommand = "aptos move test --package-dir {root} --filter {filter}"

// CommandJudge runs a configured command per mutant. The command is a
// whitespace-split template; {root} and {filter} are replaced per invocation
// and no shell is involved.
type CommandJudge struct {
	command string
}

// NewCommandJudge constructs a CommandJudge for the given command template.
func NewCommandJudge(command string) *CommandJudge {
	if strings.TrimSpace(command) == "" {
		command = DefaultJudgeCommand
	}

	return &CommandJudge{command: command}
}

// Judge executes the judge command against the package at root.
func (j *CommandJudge) Judge(ctx context.Context, root m.Path, filter string) (JudgeResult, error) {
	argv := j.buildArgv(root, filter)
	if len(argv) == 0 {
		return JudgeResult{Status: JudgeInternal}, errors.New("empty judge command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = string(root)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := stdout.String() + stderr.String()

	if ctx.Err() != nil {
		// The caller turns a cut-off run into a timeout verdict.
		return JudgeResult{Status: JudgeInternal, Output: output}, ctx.Err()
	}

	return JudgeResult{Status: ClassifyJudgeRun(err, output), Output: output}, nil
}

func (j *CommandJudge) buildArgv(root m.Path, filter string) []string {
	fields := strings.Fields(j.command)
	argv := make([]string, 0, len(fields))

	for _, field := range fields {
		switch field {
		case judgeRootPlaceholder:
			argv = append(argv, string(root))
		case judgeFilterPlaceholder:
			if filter == "" {
				// Drop the preceding flag so an empty filter does not
				// produce a dangling argument.
				if len(argv) > 0 && strings.HasPrefix(argv[len(argv)-1], "-") {
					argv = argv[:len(argv)-1]
				}

				continue
			}

			argv = append(argv, filter)
		default:
			// An embedded placeholder like --filter={filter} with no filter
			// would leave a dangling --filter=; drop the field instead.
			if filter == "" && strings.Contains(field, judgeFilterPlaceholder) {
				continue
			}

			argv = append(argv, strings.ReplaceAll(strings.ReplaceAll(field, judgeRootPlaceholder, string(root)), judgeFilterPlaceholder, filter))
		}
	}

	return argv
}

// buildFailureMarkers are output fragments that identify a compile failure
// rather than a test failure. They follow the Move compiler's diagnostics.
var buildFailureMarkers = []string{
	"error[E",
	"compilation error",
	"Unable to resolve",
	"Failed to build",
	"failed to compile",
}

// ClassifyJudgeRun maps the exec error and combined output of a judge run to
// a structured status.
func ClassifyJudgeRun(runErr error, output string) JudgeStatus {
	if runErr == nil {
		return JudgePassed
	}

	for _, marker := range buildFailureMarkers {
		if strings.Contains(output, marker) {
			return JudgeBuildFailed
		}
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) && exitErr.ExitCode() > 0 {
		return JudgeFailed
	}

	// The process never ran or was killed: not a signal about the mutant.
	return JudgeInternal
}
