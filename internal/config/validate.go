package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		return errors.New("paths.download_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		return errors.New("paths.ledger_path must be set")
	}
	if strings.TrimSpace(c.Paths.HandoffPath) == "" {
		return errors.New("paths.handoff_path must be set")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.StableSeconds < 1 {
		return errors.New("pipeline.stable_seconds must be at least 1")
	}
	if c.Pipeline.MaxParallel < 1 {
		return errors.New("pipeline.max_parallel must be at least 1")
	}
	for _, ext := range c.Pipeline.VideoExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("pipeline.video_extensions: invalid extension %q", ext)
		}
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.Retries < 1 {
		return errors.New("fetch.retries must be at least 1")
	}
	return nil
}
