// Package execx provides the process-execution primitive used by registry
// clients that shell out to ecosystem tooling.
package execx

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/matzehuels/depledger/pkg/observability"
)

// Runner executes an external command and captures its stdout.
//
// Run is the allow-failure primitive from the adapter contract: callers
// treat an error as "answer unknown" and degrade, never retry. Runners
// must be safe for concurrent use.
type Runner interface {
	// Run invokes name with args and returns captured stdout. A missing
	// binary, a non-zero exit, or a canceled context is reported as an
	// error with empty output.
	Run(ctx context.Context, name string, args ...string) (string, error)

	// LookPath reports whether name resolves to an executable on PATH.
	LookPath(name string) bool
}

// System runs commands on the host. The zero value is ready to use.
type System struct{}

// Run executes the command, capturing stdout only; stderr is discarded.
func (System) Run(ctx context.Context, name string, args ...string) (string, error) {
	observability.Exec().OnCommand(ctx, name, args)
	start := time.Now()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	err := cmd.Run()

	observability.Exec().OnCommandComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// LookPath reports whether name is on PATH.
func (System) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
