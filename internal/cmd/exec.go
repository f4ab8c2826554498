package cmd

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/toolprint/vibews/internal/errs"
	"github.com/toolprint/vibews/internal/log"
)

// RunContext runs name with args in dir (empty = current directory).
// A cancelled context is reported as ctx.Err(); any other failure is an
// *errs.ToolError carrying the trimmed stderr.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := OutputContext(ctx, dir, name, args...)
	return err
}

// OutputContext is RunContext returning stdout.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &errs.ToolError{
			Tool:   name,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}

// Exists reports whether name resolves on PATH.
func Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
