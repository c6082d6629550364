package testsupport

import (
	"path/filepath"
	"testing"

	"subrename/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose state directory is unique to the test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithCollision sets the collision policy on the test config.
func WithCollision(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.Collision = policy
	}
}

// WithJournal toggles the rename journal.
func WithJournal(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = enabled
	}
}

// WithSubtitlePatterns sets custom subtitle extraction patterns.
func WithSubtitlePatterns(patterns ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.SubtitlePatterns = patterns
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
