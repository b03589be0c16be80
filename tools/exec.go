package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const defaultExecTimeout = 10 * time.Second

// ExecConfig tunes the code-execution tool.
type ExecConfig struct {
	// Interpreter invoked for snippets. Defaults to python3.
	Interpreter string
	// Timeout is the hard wall-clock limit for one run.
	Timeout time.Duration
	// WorkDir is the process working directory, usually the workspace root.
	WorkDir string
}

// ExecuteCode creates the execute_code tool. The snippet runs in a
// separate OS process under a hard timeout; on expiry the process is
// killed and a failure result with a timeout reason is returned. The
// subprocess exists for isolation, not throughput.
func ExecuteCode(cfg ExecConfig) Tool {
	if cfg.Interpreter == "" {
		cfg.Interpreter = "python3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultExecTimeout
	}

	schema := ObjectSchema(map[string]*PropertySchema{
		"code":     StringProperty("Source code to execute"),
		"language": EnumProperty("Language of the snippet", []string{"python"}),
	}, []string{"code"})

	return NewTool(
		"execute_code",
		fmt.Sprintf("Execute a Python snippet in a subprocess with a %s timeout", cfg.Timeout),
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			if lang := stringParam(params, "language", "python"); lang != "python" {
				return nil, fmt.Errorf("language %s not supported", lang)
			}
			code := stringParam(params, "code", "")

			tmp, err := os.CreateTemp("", "traydesk-*.py")
			if err != nil {
				return nil, err
			}
			defer os.Remove(tmp.Name())
			if _, err := tmp.WriteString(code); err != nil {
				tmp.Close()
				return nil, err
			}
			tmp.Close()

			runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()

			cmd := exec.CommandContext(runCtx, cfg.Interpreter, tmp.Name())
			cmd.Dir = cfg.WorkDir
			// Bound cleanup after the kill signal so a stuck interpreter
			// cannot leave the loop waiting on a zombie.
			cmd.WaitDelay = 2 * time.Second

			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err = cmd.Run()
			if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("timeout: execution exceeded %s", cfg.Timeout)
			}

			exitCode := 0
			if err != nil {
				var exitErr *exec.ExitError
				if errors.As(err, &exitErr) {
					exitCode = exitErr.ExitCode()
				} else {
					return nil, fmt.Errorf("run %s: %w", cfg.Interpreter, err)
				}
			}

			return map[string]any{
				"stdout":      stdout.String(),
				"stderr":      stderr.String(),
				"return_code": exitCode,
			}, nil
		},
	)
}
