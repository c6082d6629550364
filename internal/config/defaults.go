package config

import (
	"subrename/internal/media"
	"subrename/internal/plan"
)

const (
	defaultConfigPath      = "~/.config/subrename/config.toml"
	projectConfigName      = "subrename.toml"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultOrdinalFallback = true
	defaultJournalEnabled  = true
	stateDirEnv            = "SUBRENAME_STATE_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Extensions: Extensions{
			Video:    append([]string(nil), media.DefaultVideoExtensions...),
			Subtitle: append([]string(nil), media.DefaultSubtitleExtensions...),
		},
		Matching: Matching{
			OrdinalFallback: defaultOrdinalFallback,
			Collision:       string(plan.CollisionSuffix),
		},
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		Journal: Journal{
			Enabled: defaultJournalEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
