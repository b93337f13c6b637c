// Package ytdlp wraps the yt-dlp command line downloader, the pipeline's
// media fetcher.
package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

var commandContext = exec.CommandContext

// Result describes a completed download.
type Result struct {
	// Path is the primary media file yt-dlp saved.
	Path string
	// Title is the media title reported by the extractor, best effort.
	Title string
}

// Client defines media fetching behaviour.
type Client interface {
	Fetch(ctx context.Context, url, outputDir string) (Result, error)
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

// WithCookiesFile passes a Netscape-format cookies file to every invocation.
func WithCookiesFile(path string) Option {
	return func(c *CLI) {
		c.cookiesFile = strings.TrimSpace(path)
	}
}

// CLI wraps the yt-dlp command line tool.
type CLI struct {
	binary      string
	cookiesFile string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "yt-dlp"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Fetch downloads url into outputDir and returns the saved path and title.
// yt-dlp performs its writes through .part temp names, so a failed or
// interrupted fetch never leaves a file the scanner would mistake for a
// completed download.
func (c *CLI) Fetch(ctx context.Context, url, outputDir string) (Result, error) {
	if strings.TrimSpace(url) == "" {
		return Result{}, errors.New("url required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return Result{}, errors.New("output directory required")
	}

	args := []string{
		"--no-playlist",
		"--no-simulate",
		"--print", "after_move:filepath",
		"--print", "title",
		"--output", filepath.Join(outputDir, "%(title).150s.%(ext)s"),
	}
	if c.cookiesFile != "" {
		args = append(args, "--cookies", c.cookiesFile)
	}
	args = append(args, url)

	cmd := commandContext(ctx, c.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return Result{}, fmt.Errorf("yt-dlp failed: %w: %s", err, lastLine(detail))
		}
		return Result{}, fmt.Errorf("yt-dlp failed: %w", err)
	}

	lines := nonEmptyLines(stdout.String())
	if len(lines) < 2 {
		return Result{}, fmt.Errorf("yt-dlp produced unexpected output: %q", strings.TrimSpace(stdout.String()))
	}
	// Prints are emitted in argument order: filepath first, then title.
	return Result{Path: lines[0], Title: lines[1]}, nil
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func lastLine(s string) string {
	lines := nonEmptyLines(s)
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

var _ Client = (*CLI)(nil)
