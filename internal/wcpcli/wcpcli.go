package wcpcli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"wcp-fetch/internal/logger"
)

// Runner executes the external wcpcli tool and returns its stdout.
// It exists as an interface so tests can substitute a stub instead of
// spawning real processes.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// Client drives the wcpcli tool through a Runner.
type Client struct {
	runner Runner
}

// New returns a Client backed by real subprocess execution of the given
// executable (name or path).
func New(executable string) *Client {
	return &Client{runner: &execRunner{program: executable}}
}

// NewWithRunner returns a Client using a caller-supplied Runner.
func NewWithRunner(r Runner) *Client {
	return &Client{runner: r}
}

// Login authenticates with the platform via `wcpcli auth:login`.
// The tool's own exit status is the sole signal; its output is not consumed
// beyond error reporting.
func (c *Client) Login(ctx context.Context) error {
	logger.Debug("[DEBUG] Running wcpcli auth:login\n")
	if _, err := c.runner.Run(ctx, "auth:login"); err != nil {
		return fmt.Errorf("wcpcli login failed: %w", err)
	}
	logger.Info("[INFO] wcpcli login successful.\n")
	return nil
}

// Download triggers the platform export of the application's source archive
// via `wcpcli apps:download <id>`. The tool deposits the ZIP into the
// browser download directory; landing is detected separately by watching
// that directory.
func (c *Client) Download(ctx context.Context, appID string) error {
	logger.Debug("[DEBUG] Running wcpcli apps:download %s\n", appID)
	if _, err := c.runner.Run(ctx, "apps:download", appID); err != nil {
		return fmt.Errorf("wcpcli download failed for app %s: %w", appID, err)
	}
	return nil
}

// execRunner spawns the wcpcli process with captured stdout/stderr.
type execRunner struct {
	program string
}

// Run executes the program with the given arguments and returns its stdout.
// On non-zero exit the captured stderr is folded into the returned error so
// the operator sees what the tool reported.
func (r *execRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.program, args...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg != "" {
			return "", fmt.Errorf("%s %s: %w: %s", r.program, strings.Join(args, " "), err, msg)
		}
		return "", fmt.Errorf("%s %s: %w", r.program, strings.Join(args, " "), err)
	}
	return stdout.String(), nil
}
