package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"localize-collector/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "localize-collector",
		Short:         "Collect $localize messages into an XLIFF translation file",
		Long:          "Extracts tagged template translations from a source tree and merges them into messages.xlf, keeping existing translations.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(collectCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(listCmd())

	return rootCmd
}

func collectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect [translationsDir] [sourceDir]",
		Short: "Extract messages from the source tree and merge them into messages.xlf",
		Long: `Walks sourceDir (default ".") honoring its ignore file, extracts every
tagged template call and updates translationsDir/messages.xlf (default "i18n").
Existing translations are kept; source text and locations are refreshed.
Units no longer found in the sources are left untouched.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if len(args) > 0 {
				cfg.TranslationsDir = args[0]
			}
			if len(args) > 1 {
				cfg.SourceDir = args[1]
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			ctx, cancel := setupContext()
			defer cancel()

			publish := !dryRun && (cfg.DatabaseURL != "" || cfg.Neo4jURI != "")
			res, err := runCollect(cfg, collectOptions{dryRun: dryRun, keep: publish})
			if err != nil {
				return err
			}
			if !publish {
				return nil
			}
			return runPublish(ctx, cfg, res)
		},
	}

	addExtractFlags(cmd)
	cmd.Flags().Bool("line-numbers", false, "Write the line of each call into the linenumber context")
	cmd.Flags().Int("indent", 4, "Indentation width of the written document")
	cmd.Flags().Bool("dry-run", false, "Merge in memory but do not write messages.xlf")

	return cmd
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [translationsDir]",
		Short: "Create an empty messages.xlf",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if len(args) > 0 {
				cfg.TranslationsDir = args[0]
			}
			return runInit(cfg)
		},
	}

	cmd.Flags().String("source-language", "en", "Source language of the document")
	cmd.Flags().Int("indent", 4, "Indentation width of the written document")

	return cmd
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [sourceDir]",
		Short: "Print the messages found in the source tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if len(args) > 0 {
				cfg.SourceDir = args[0]
			}
			format, _ := cmd.Flags().GetString("format")
			return runList(cfg, format, cmd.OutOrStdout())
		},
	}

	addExtractFlags(cmd)
	cmd.Flags().String("format", "json", "Output format: json or tsv")

	return cmd
}

func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().String("marker", "$localize", "Tag marking translation calls")
	cmd.Flags().String("ext", ".ts", "Extension of scanned source files")
	cmd.Flags().String("ignore-file", ".gitignore", "Ignore file at the source root")
	cmd.Flags().Bool("nested-ignore", false, "Also honor .gitignore files in subdirectories")
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()

	flags := cmd.Flags()
	if flags.Changed("marker") {
		cfg.Marker, _ = flags.GetString("marker")
	}
	if flags.Changed("ext") {
		cfg.Extension, _ = flags.GetString("ext")
	}
	if flags.Changed("ignore-file") {
		cfg.IgnoreFile, _ = flags.GetString("ignore-file")
	}
	if flags.Changed("nested-ignore") {
		cfg.NestedIgnore, _ = flags.GetBool("nested-ignore")
	}
	if flags.Changed("line-numbers") {
		cfg.LineNumbers, _ = flags.GetBool("line-numbers")
	}
	if flags.Changed("indent") {
		cfg.Indent, _ = flags.GetInt("indent")
	}
	if flags.Changed("source-language") {
		cfg.SourceLanguage, _ = flags.GetString("source-language")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, keeping info")
	}

	return cfg
}

// absDir resolves dir against the working directory.
func absDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return abs, nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
