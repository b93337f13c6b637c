package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePipeline()
	if err := c.normalizeFetch(); err != nil {
		return err
	}
	c.normalizeIngest()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	if c.Paths.HandoffPath, err = expandPath(c.Paths.HandoffPath); err != nil {
		return fmt.Errorf("paths.handoff_path: %w", err)
	}
	return nil
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.StableSeconds <= 0 {
		c.Pipeline.StableSeconds = defaultStableSeconds
	}
	if c.Pipeline.MaxParallel <= 0 {
		c.Pipeline.MaxParallel = defaultMaxParallel
	}
	if strings.TrimSpace(c.Pipeline.WhisperModel) == "" {
		c.Pipeline.WhisperModel = defaultWhisperModel
	}
	exts := make([]string, 0, len(c.Pipeline.VideoExtensions))
	for _, ext := range c.Pipeline.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = []string{".mp4"}
	}
	c.Pipeline.VideoExtensions = exts
}

func (c *Config) normalizeFetch() error {
	if c.Fetch.Retries <= 0 {
		c.Fetch.Retries = defaultFetchRetries
	}
	var err error
	if c.Fetch.CookiesFile != "" {
		if c.Fetch.CookiesFile, err = expandPath(c.Fetch.CookiesFile); err != nil {
			return fmt.Errorf("fetch.cookies_file: %w", err)
		}
	}
	if c.Fetch.URLLog != "" {
		if c.Fetch.URLLog, err = expandPath(c.Fetch.URLLog); err != nil {
			return fmt.Errorf("fetch.url_log: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeIngest() {
	senders := make([]string, 0, len(c.Ingest.ApprovedSenders))
	for _, sender := range c.Ingest.ApprovedSenders {
		sender = strings.ToLower(strings.TrimSpace(sender))
		if sender != "" {
			senders = append(senders, sender)
		}
	}
	c.Ingest.ApprovedSenders = senders
	if strings.TrimSpace(c.Ingest.RouteKeyword) == "" {
		c.Ingest.RouteKeyword = defaultRouteKeyword
	}
	if c.Ingest.ResponsePrefix == "" {
		c.Ingest.ResponsePrefix = defaultResponsePrefix
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}
