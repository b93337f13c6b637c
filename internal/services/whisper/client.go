// Package whisper wraps the whisper command line transcriber.
package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var commandContext = exec.CommandContext

// DefaultModel is the whisper model used when none is configured.
const DefaultModel = "base"

// Client defines transcription behaviour.
type Client interface {
	Transcribe(ctx context.Context, audioPath, model string) (string, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the whisper command line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "whisper"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Transcribe runs whisper on audioPath and returns the plain transcript text.
// Output goes to a scratch directory so a failed run leaves nothing next to
// the audio file.
func (c *CLI) Transcribe(ctx context.Context, audioPath, model string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", errors.New("audio path required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	scratch, err := os.MkdirTemp("", "factreel-whisper-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(scratch)
	}()

	args := []string{
		audioPath,
		"--model", model,
		"--output_format", "txt",
		"--output_dir", scratch,
		"--verbose", "False",
	}
	cmd := commandContext(ctx, c.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("whisper failed: %w: %s", err, lastLine(detail))
		}
		return "", fmt.Errorf("whisper failed: %w", err)
	}

	base := filepath.Base(audioPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	data, err := os.ReadFile(filepath.Join(scratch, stem+".txt"))
	if err != nil {
		return "", fmt.Errorf("read transcript output: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ Client = (*CLI)(nil)
