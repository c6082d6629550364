package config

import (
	"errors"
	"fmt"
	"strings"

	"subrename/internal/identity"
	"subrename/internal/media"
	"subrename/internal/plan"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExtensions(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExtensions() error {
	if len(c.Extensions.Video) == 0 {
		return errors.New("extensions.video must list at least one extension")
	}
	if len(c.Extensions.Subtitle) == 0 {
		return errors.New("extensions.subtitle must list at least one extension")
	}
	if shared := media.NewExtensions(c.Extensions.Video, c.Extensions.Subtitle).Overlap(); len(shared) > 0 {
		return fmt.Errorf("extensions %s are listed as both video and subtitle", strings.Join(shared, ", "))
	}
	return nil
}

func (c *Config) validateMatching() error {
	if _, err := plan.ParseCollisionPolicy(c.Matching.Collision); err != nil {
		return fmt.Errorf("matching.collision: %w", err)
	}
	if _, err := identity.NewExtractor(c.Matching.VideoPatterns); err != nil {
		return fmt.Errorf("matching.video_patterns: %w", err)
	}
	if _, err := identity.NewExtractor(c.Matching.SubtitlePatterns); err != nil {
		return fmt.Errorf("matching.subtitle_patterns: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
