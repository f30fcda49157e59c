package latexmk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"coderdist/internal/services"
)

// tailLines bounds how much engine output is kept for error reports.
const tailLines = 20

// Compiler turns a LaTeX source into a PDF.
type Compiler interface {
	Compile(ctx context.Context, workDir, texName string) (string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, dir, binary string, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithOutputExtension sets the extension of the file the engine produces.
func WithOutputExtension(ext string) Option {
	return func(c *Client) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.ext = ext
	}
}

// Client wraps TeX engine invocations.
type Client struct {
	binary  string
	args    []string
	ext     string
	timeout time.Duration
	exec    Executor
}

// New constructs a client for binary, passing args before the source file name.
func New(binary string, args []string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("tex engine binary required")
	}
	client := &Client{
		binary:  binary,
		args:    append([]string(nil), args...),
		ext:     ".pdf",
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Compile runs the engine on texName inside workDir and returns the path of
// the document it produced.
func (c *Client) Compile(ctx context.Context, workDir, texName string) (string, error) {
	if workDir == "" || texName == "" {
		return "", errors.New("work directory and source name required")
	}
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), c.args...), texName)
	tail := newTail(tailLines)
	if err := c.exec.Run(runCtx, workDir, c.binary, args, tail.add); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("timed out after %s: %w", c.timeout, err)
		}
		message := fmt.Sprintf("%s failed on %s", filepath.Base(c.binary), texName)
		if output := tail.String(); output != "" {
			message += ": " + output
		}
		return "", services.Wrap(services.ErrExternalTool, "typeset", "compile", message, err)
	}

	outPath := filepath.Join(workDir, strings.TrimSuffix(texName, filepath.Ext(texName))+c.ext)
	if _, err := os.Stat(outPath); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "typeset", "compile",
			fmt.Sprintf("%s produced no %s for %s", filepath.Base(c.binary), c.ext, texName), err)
	}
	return outPath, nil
}

type tail struct {
	mu    sync.Mutex
	limit int
	lines []string
}

func newTail(limit int) *tail {
	return &tail{limit: limit}
}

func (t *tail) add(line string) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *tail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, " | ")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, dir, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Dir = dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
