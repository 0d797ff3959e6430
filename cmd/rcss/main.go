// Command rcss compiles RCSS source files to plain CSS.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nathan-king/rcss-preprocessor/internal/compiler"
	"github.com/nathan-king/rcss-preprocessor/internal/loader"
	"github.com/nathan-king/rcss-preprocessor/internal/theme"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rcss",
		Short: "Compile RCSS source into standard CSS",
	}
	root.AddCommand(newBuildCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	var (
		outputPath string
		themeDir   string
		watch      bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "build <input>",
		Short: "Compile a single RCSS file to CSS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output := outputPath
			if output == "" {
				output = deriveOutputPath(input)
			}

			log, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			th, err := theme.Load(themeDir)
			if err != nil {
				return err
			}

			if err := runBuild(input, output, th, log); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchAndRebuild(input, output, th, log)
		},
	}

	cmd.Flags().StringVar(&outputPath, "output", "", "Output CSS file path")
	cmd.Flags().StringVar(&themeDir, "theme", "theme", "Directory containing tokens.json and shorthands.json")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild whenever the input or its imports change")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	return cmd
}

// deriveOutputPath derives the output CSS path from the input: a `.rcss`
// suffix is replaced with `.css`; anything else has `.css` appended.
func deriveOutputPath(input string) string {
	if strings.HasSuffix(input, ".rcss") {
		return strings.TrimSuffix(input, ".rcss") + ".css"
	}
	return input + ".css"
}

func runBuild(input, output string, th *theme.Theme, log *zap.Logger) error {
	compileID := uuid.NewString()
	log = log.With(zap.String("compile_id", compileID))

	css, err := compiler.Compile(input, th, log)
	if err != nil {
		log.Error("build failed", zap.String("input", input), zap.Error(err))
		return err
	}

	if err := os.WriteFile(output, []byte(css), 0644); err != nil {
		return fmt.Errorf("Failed to write %s", output)
	}

	log.Info("build succeeded", zap.String("input", input), zap.String("output", output))
	fmt.Printf("✓ Built %s → %s\n", input, output)
	return nil
}

// watchAndRebuild re-runs runBuild whenever input or any file it
// transitively @imports changes, per the --watch supplemental flag.
func watchAndRebuild(input, output string, th *theme.Theme, log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	addWatches := func() error {
		paths, err := loader.ImportedFiles(input)
		if err != nil {
			return err
		}
		for _, p := range paths {
			if watched[p] {
				continue
			}
			if err := watcher.Add(filepath.Dir(p)); err != nil {
				return err
			}
			watched[p] = true
		}
		return nil
	}
	if err := addWatches(); err != nil {
		return err
	}

	log.Info("watching for changes", zap.String("input", input))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if err := runBuild(input, output, th, log); err != nil {
				log.Warn("rebuild failed", zap.Error(err))
				continue
			}
			if err := addWatches(); err != nil {
				log.Warn("failed to refresh watch list", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var zl zapcore.Level
	if err := zl.Set(strings.ToLower(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zl)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return cfg.Build()
}
