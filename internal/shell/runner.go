// Package shell executes external commands and captures their output
// streams, keeping a combined transcript in arrival order.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/google/uuid"
)

// Options adjusts how a command is launched. The zero value runs the
// command in the current directory with the current environment.
type Options struct {
	Dir string            // working directory override
	Env map[string]string // environment variable overrides, merged over os.Environ
}

// Run launches name with args and waits for the process to terminate.
//
// A started process always yields a Result, even when it exits nonzero;
// callers inspect ExitCode to decide success. Run returns an error only
// when the command could not be launched at all (not found, permission
// denied). No timeout or output cap is applied here; callers bound the
// call through ctx if they need one.
func Run(ctx context.Context, name string, args []string, opts Options) (*Result, error) {
	if name == "" {
		return nil, fmt.Errorf("empty command name")
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		env := os.Environ()
		for key, value := range opts.Env {
			env = append(env, key+"="+value)
		}
		cmd.Env = env
	}

	var mu sync.Mutex
	var stdout, stderr, combined bytes.Buffer
	cmd.Stdout = &teeWriter{mu: &mu, primary: &stdout, combined: &combined}
	cmd.Stderr = &teeWriter{mu: &mu, primary: &stderr, combined: &combined}

	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// Binary not found or other launch error.
			return nil, fmt.Errorf("executing %s: %w", name, runErr)
		}
		exitCode = exitErr.ExitCode()
	}

	return &Result{
		RunID:    uuid.New().String(),
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
	}, nil
}

// teeWriter appends each chunk to its own stream buffer and to the
// shared combined buffer under one lock, so the combined transcript
// preserves the order chunks arrived across both streams.
type teeWriter struct {
	mu       *sync.Mutex
	primary  *bytes.Buffer
	combined *bytes.Buffer
}

func (w *teeWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.combined.Write(p)
	return w.primary.Write(p)
}
