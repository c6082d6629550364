package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"subrename/internal/config"
	"subrename/internal/engine"
	"subrename/internal/journal"
	"subrename/internal/plan"
)

// errRenameFailures is returned after the report is printed so main only
// sets the exit status.
var errRenameFailures = errors.New("one or more renames failed")

// renameFlagAliases maps the legacy flag names onto their current ones.
var renameFlagAliases = map[string]string{
	"srt-ext":   "subtitle-ext",
	"mkv-ext":   "video-ext",
	"srt-regex": "subtitle-pattern",
	"mkv-regex": "video-pattern",
}

type renameFlags struct {
	directory        string
	recursive        bool
	dryRun           bool
	videoExt         []string
	subtitleExt      []string
	videoPatterns    []string
	subtitlePatterns []string
	noOrdinal        bool
	collision        string
	json             bool
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var flags renameFlags

	cmd := &cobra.Command{
		Use:   "rename [directory]",
		Short: "Rename subtitles to match their videos",
		Long: `Rename pairs every subtitle under a directory with its video by episode
number (or by name) and renames the subtitle to the video's name, keeping
language and flag tags such as .eng or .forced.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if cmd.Flags().Changed("directory") {
					return errors.New("give the directory either as an argument or with --directory, not both")
				}
				flags.directory = args[0]
			}
			opts, err := renameOptions(cmd.Flags(), flags, cfg)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			return ctx.withJournal(cmd.Context(), func(store *journal.Store) error {
				report, err := engine.Run(cmd.Context(), opts, engine.Deps{
					Journal: store,
					LockDir: cfg.LockDir(),
					Logger:  logger,
				})
				if err != nil {
					return err
				}
				if flags.json {
					if err := writeJSON(cmd, report); err != nil {
						return err
					}
				} else {
					renderReport(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
				}
				if report.HasFailures() {
					return errRenameFailures
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.directory, "directory", "d", ".", "Directory to process")
	f.BoolVarP(&flags.recursive, "recursive", "r", false, "Descend into subdirectories")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Show the renames without applying them")
	f.StringSliceVar(&flags.videoExt, "video-ext", nil, "Video extensions, comma separated (default from config)")
	f.StringSliceVar(&flags.subtitleExt, "subtitle-ext", nil, "Subtitle extensions, comma separated (default from config)")
	f.StringArrayVar(&flags.videoPatterns, "video-pattern", nil, "Regular expression extracting the episode from video names (repeatable)")
	f.StringArrayVar(&flags.subtitlePatterns, "subtitle-pattern", nil, "Regular expression extracting the episode from subtitle names (repeatable)")
	f.BoolVar(&flags.noOrdinal, "no-ordinal", false, "Disable pairing by sorted order when no names carry episode numbers")
	f.StringVar(&flags.collision, "collision", "", "What to do when the target name is taken: suffix or skip (default from config)")
	f.BoolVar(&flags.json, "json", false, "Print the report as JSON")
	f.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if canonical, ok := renameFlagAliases[name]; ok {
			name = canonical
		}
		return pflag.NormalizedName(name)
	})

	return cmd
}

// renameOptions layers explicitly set flags over the configuration.
func renameOptions(set *pflag.FlagSet, flags renameFlags, cfg *config.Config) (engine.Options, error) {
	videoPatterns, subtitlePatterns := cfg.EffectivePatterns()
	opts := engine.Options{
		Root:               strings.TrimSpace(flags.directory),
		VideoExtensions:    cfg.Extensions.Video,
		SubtitleExtensions: cfg.Extensions.Subtitle,
		DryRun:             flags.dryRun,
		Recursive:          flags.recursive,
		VideoPatterns:      videoPatterns,
		SubtitlePatterns:   subtitlePatterns,
		OrdinalFallback:    cfg.Matching.OrdinalFallback && !flags.noOrdinal,
		Collision:          plan.CollisionPolicy(cfg.Matching.Collision),
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	if set.Changed("video-ext") {
		opts.VideoExtensions = config.NormalizeExtensionList(flags.videoExt)
	}
	if set.Changed("subtitle-ext") {
		opts.SubtitleExtensions = config.NormalizeExtensionList(flags.subtitleExt)
	}
	videoChanged, subtitleChanged := set.Changed("video-pattern"), set.Changed("subtitle-pattern")
	if videoChanged || subtitleChanged {
		opts.VideoPatterns, opts.SubtitlePatterns = engine.SharePatterns(flags.videoPatterns, flags.subtitlePatterns)
	}
	if set.Changed("collision") {
		policy, err := plan.ParseCollisionPolicy(flags.collision)
		if err != nil {
			return engine.Options{}, err
		}
		opts.Collision = policy
	}
	return opts, nil
}
