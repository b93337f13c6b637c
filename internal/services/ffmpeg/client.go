// Package ffmpeg wraps the ffmpeg command line tool for audio extraction.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Client defines audio extraction behaviour.
type Client interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
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

// CLI wraps the ffmpeg command line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// ExtractAudio writes a 16 kHz mono wav of videoPath's audio track to
// audioPath. ffmpeg writes to a temporary sibling which is renamed into place
// on success, so a partial audio sidecar never exists at audioPath.
func (c *CLI) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	if strings.TrimSpace(videoPath) == "" {
		return errors.New("video path required")
	}
	if strings.TrimSpace(audioPath) == "" {
		return errors.New("audio path required")
	}

	tmpPath := audioPath + ".part"
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	args := []string{
		"-i", videoPath,
		"-ar", "16000",
		"-ac", "1",
		"-vn",
		"-f", "wav",
		"-y",
		tmpPath,
	}
	cmd := commandContext(ctx, c.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLine(detail))
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}

	if err := os.Rename(tmpPath, audioPath); err != nil {
		return fmt.Errorf("finalize audio file: %w", err)
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ Client = (*CLI)(nil)
