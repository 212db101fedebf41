package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
	"github.com/MeKo-Tech/colorconverter/internal/swatch"
	"github.com/MeKo-Tech/colorconverter/internal/worker"
)

var swatchesCmd = &cobra.Command{
	Use:   "swatches [color...]",
	Short: "Render swatch PNGs for colors",
	Long: `Render a watercolor swatch PNG for each color.

Colors come from the arguments, from an --input file with one color per line
(either "color" or "name=color", # starts a comment), or from the palette
database with --from-palette. Any of the three notations is accepted.`,
	RunE: runSwatches,
}

func init() {
	rootCmd.AddCommand(swatchesCmd)

	swatchesCmd.Flags().StringP("input", "i", "", "File with one color per line")
	swatchesCmd.Flags().Bool("from-palette", false, "Render every color in the palette database")
	swatchesCmd.Flags().StringP("out-dir", "o", "./swatches", "Output directory")
	swatchesCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	swatchesCmd.Flags().Bool("progress", true, "Show progress bar")
	swatchesCmd.Flags().Bool("allow-failures", false, "Exit successfully even if some swatches fail")
	swatchesCmd.Flags().Bool("force", false, "Re-render swatches that already exist")

	swatchesCmd.Flags().Int("size", swatch.DefaultOptions().Size, "Swatch size in pixels (square)")
	swatchesCmd.Flags().Float64("grain", swatch.DefaultOptions().Grain, "Watercolor grain strength (0..1)")
	swatchesCmd.Flags().Float32("blur", swatch.DefaultOptions().Blur, "Grain blur sigma")
	swatchesCmd.Flags().Int64("seed", swatch.DefaultOptions().Seed, "Deterministic seed for the grain noise")
	swatchesCmd.Flags().Bool("label", true, "Print the color notations on the swatch")
	swatchesCmd.Flags().Bool("wash", false, "Paint a ragged watercolor blob on paper instead of a flat tile")
	swatchesCmd.Flags().Float64("edge", swatch.DefaultOptions().Edge, "Edge darkening of the wash (0..1)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"swatches.input", "input"},
		{"swatches.from_palette", "from-palette"},
		{"swatches.out_dir", "out-dir"},
		{"swatches.workers", "workers"},
		{"swatches.progress", "progress"},
		{"swatches.allow_failures", "allow-failures"},
		{"swatches.force", "force"},
		{"swatches.size", "size"},
		{"swatches.grain", "grain"},
		{"swatches.blur", "blur"},
		{"swatches.seed", "seed"},
		{"swatches.label", "label"},
		{"swatches.wash", "wash"},
		{"swatches.edge", "edge"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, swatchesCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runSwatches(cmd *cobra.Command, args []string) error {
	input := viper.GetString("swatches.input")
	fromPalette := viper.GetBool("swatches.from_palette")
	outDir := viper.GetString("swatches.out_dir")
	workers := viper.GetInt("swatches.workers")
	showProgress := viper.GetBool("swatches.progress")
	allowFailures := viper.GetBool("swatches.allow_failures")
	force := viper.GetBool("swatches.force")

	opts := swatch.Options{
		Size:  viper.GetInt("swatches.size"),
		Grain: viper.GetFloat64("swatches.grain"),
		Blur:  float32(viper.GetFloat64("swatches.blur")),
		Seed:  viper.GetInt64("swatches.seed"),
		Label: viper.GetBool("swatches.label"),
		Wash:  viper.GetBool("swatches.wash"),
		Edge:  viper.GetFloat64("swatches.edge"),
	}

	if logger == nil {
		initLogging()
	}

	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid swatch options: %w", err)
	}

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks, err := parseColorArgs(args)
	if err != nil {
		return err
	}

	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		fileTasks, err := parseColorLines(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		tasks = append(tasks, fileTasks...)
	}

	if fromPalette {
		store, err := openPalette()
		if err != nil {
			return err
		}
		entries, err := store.List(ctx)
		store.Close()
		if err != nil {
			return err
		}
		for _, e := range entries {
			tasks = append(tasks, worker.Task{Name: e.Name, Color: e.Color()})
		}
	}

	if len(tasks) == 0 {
		return fmt.Errorf("no colors given: pass colors as arguments, --input or --from-palette")
	}
	for i := range tasks {
		tasks[i].Force = force
	}

	// Default workers to CPU count
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger.Info("Starting swatch rendering",
		"swatches", len(tasks),
		"workers", workers,
		"out_dir", outDir,
		"size", opts.Size,
	)

	progress := worker.NewProgress(len(tasks), showProgress)
	pool := worker.New(worker.Config{
		Workers:    workers,
		Renderer:   &worker.FileRenderer{OutDir: outDir, Options: opts},
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	var failedCount int
	for _, r := range results {
		if r.Err != nil {
			failedCount++
			logger.Error("Swatch rendering failed", "swatch", r.Task.Label(), "error", r.Err)
			continue
		}
		logger.Debug("Swatch written", "swatch", r.Task.Label(), "path", r.Path, "cached", r.Cached, "shared", r.Shared, "elapsed", r.Elapsed)
	}

	logger.Info(progress.Summary())

	if failedCount > 0 {
		if allowFailures {
			logger.Warn("Some swatches failed to render, but continuing due to --allow-failures flag", "failed_count", failedCount)
			return nil
		}
		return fmt.Errorf("%d swatches failed to render", failedCount)
	}
	return nil
}

// parseColorArgs turns command-line colors into tasks.
func parseColorArgs(args []string) ([]worker.Task, error) {
	tasks := make([]worker.Task, 0, len(args))
	for _, arg := range args {
		task, err := parseColorSpec(arg)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// parseColorLines reads one color per line. Blank lines and lines starting
// with # are skipped, unless the line is a hex color.
func parseColorLines(r io.Reader) ([]worker.Task, error) {
	var tasks []worker.Task
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if _, ok := colorspace.HexToRGB(line); !ok {
				continue
			}
		}

		task, err := parseColorSpec(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		tasks = append(tasks, task)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read colors: %w", err)
	}
	return tasks, nil
}

// parseColorSpec parses "color" or "name=color".
func parseColorSpec(spec string) (worker.Task, error) {
	var task worker.Task
	text := spec
	if name, color, ok := strings.Cut(spec, "="); ok {
		task.Name = strings.TrimSpace(name)
		text = color
		if task.Name == "" {
			return worker.Task{}, fmt.Errorf("invalid color %q: empty name", spec)
		}
	}

	c, _, err := colorspace.ParseAny(text)
	if err != nil {
		return worker.Task{}, err
	}
	task.Color = c
	return task, nil
}
