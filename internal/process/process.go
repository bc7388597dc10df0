package process

import (
	"bytes"
	"context"
	"os/exec"
)

// Result holds the captured output of a finished command.
type Result struct {
	Stdout string
	Stderr string
}

// Run executes name in dir and waits for it. When ctx is cancelled the
// whole process group is killed and ctx.Err() is returned.
func Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	NewGroup(cmd)
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, err
}
