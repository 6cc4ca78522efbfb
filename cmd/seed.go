package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"estimator-backend/logging"
	"estimator-backend/repository"
	"estimator-backend/storage"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type seedOptions struct {
	dryRun  bool
	ifEmpty bool
}

func seedCmd() *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed [files...]",
		Short: "Normalize and import calculator seeds",
		Long: `Reads calculator seeds in JSON or YAML, in any of the historical shapes, converts
them to the canonical model, validates them and stores each as the active calculator.
Files are imported in order, so the last one stays active. Without files the built-in
calculator is imported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "normalize and validate only")
	cmd.Flags().BoolVar(&opts.ifEmpty, "if-empty", false, "skip when a calculator is already active")
	return cmd
}

type seedSource struct {
	name   string
	raw    []byte
	format repository.SeedFormat
}

func seedSources(paths []string) ([]seedSource, error) {
	if len(paths) == 0 {
		return []seedSource{{name: "built-in", raw: repository.DefaultSeed(), format: repository.FormatYAML}}, nil
	}
	sources := make([]seedSource, 0, len(paths))
	for _, p := range paths {
		raw, format, err := repository.LoadSeedFile(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, seedSource{name: filepath.Base(p), raw: raw, format: format})
	}
	return sources, nil
}

func runSeed(cmd *cobra.Command, paths []string, opts seedOptions) error {
	sources, err := seedSources(paths)
	if err != nil {
		return err
	}

	if opts.dryRun {
		return checkSeeds(sources)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync()

	store, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	bar := progressbar.NewOptions(len(sources),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Importing seeds[reset]"),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)

	var imported int
	for _, src := range sources {
		if opts.ifEmpty {
			_, seeded, err := repository.SeedIfEmpty(ctx, store, src.raw, src.format)
			if err != nil {
				return fmt.Errorf("%s: %w", src.name, err)
			}
			if seeded {
				imported++
			}
		} else {
			if _, _, err := repository.ImportSeed(ctx, store, src.raw, src.format); err != nil {
				return fmt.Errorf("%s: %w", src.name, err)
			}
			imported++
		}
		if err := bar.Add(1); err != nil {
			logging.Debug("progress bar", zap.Error(err))
		}
	}

	active, err := store.ActiveCalculator(ctx)
	if err != nil {
		return err
	}
	fmt.Println(formatSuccess(fmt.Sprintf("imported %d of %d seeds; active: %q v%s (%d steps)",
		imported, len(sources), active.Title, active.Version, len(active.Steps))))
	return nil
}

// checkSeeds reports what normalization would change without touching a store.
func checkSeeds(sources []seedSource) error {
	var failed int
	for _, src := range sources {
		calc, report, err := repository.NormalizeSeed(src.raw, src.format)
		if err == nil {
			err = calc.Validate()
		}
		if err != nil {
			failed++
			fmt.Println(formatWarning(fmt.Sprintf("%s: %v", src.name, err)))
			continue
		}
		fmt.Println(formatSuccess(fmt.Sprintf("%s: %s shape, %d steps", src.name, report.Shape, len(calc.Steps))))
		for _, w := range report.Warnings {
			fmt.Println(subtleStyle.Render("    " + w))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d seeds are invalid", failed, len(sources))
	}
	return nil
}
