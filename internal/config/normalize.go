package config

import (
	"fmt"
	"os"
	"strings"

	"subrename/internal/media"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtensions()
	c.normalizeMatching()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(stateDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.StateDir = value
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	var err error
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtensions() {
	c.Extensions.Video = normalizeExtensionList(c.Extensions.Video)
	c.Extensions.Subtitle = normalizeExtensionList(c.Extensions.Subtitle)
}

// NormalizeExtensionList trims, lowercases, strips leading dots, and drops
// blanks and duplicates. Comma-separated entries are split.
func NormalizeExtensionList(values []string) []string {
	return normalizeExtensionList(values)
}

func normalizeExtensionList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			ext := media.NormalizeExtension(part)
			if ext == "" {
				continue
			}
			if _, ok := seen[ext]; ok {
				continue
			}
			seen[ext] = struct{}{}
			out = append(out, ext)
		}
	}
	return out
}

func (c *Config) normalizeMatching() {
	c.Matching.VideoPatterns = trimList(c.Matching.VideoPatterns)
	c.Matching.SubtitlePatterns = trimList(c.Matching.SubtitlePatterns)
	c.Matching.Collision = strings.ToLower(strings.TrimSpace(c.Matching.Collision))
	if c.Matching.Collision == "" {
		c.Matching.Collision = Default().Matching.Collision
	}
}

// EffectivePatterns returns the video and subtitle patterns after applying
// the sharing rule: a side without patterns borrows the other side's.
func (c *Config) EffectivePatterns() (video, subtitle []string) {
	video, subtitle = c.Matching.VideoPatterns, c.Matching.SubtitlePatterns
	switch {
	case len(video) == 0 && len(subtitle) > 0:
		video = subtitle
	case len(subtitle) == 0 && len(video) > 0:
		subtitle = video
	}
	return video, subtitle
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
