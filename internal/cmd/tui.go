package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorconverter/internal/clipboard"
	"github.com/MeKo-Tech/colorconverter/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive terminal converter",
	Long: `Run the three-field converter in the terminal.

Tab and the arrow keys move between fields, Ctrl-Y copies the focused field
to the terminal clipboard (OSC 52) and Esc quits.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().Duration("revert-delay", clipboard.DefaultRevertDelay, "How long copy feedback is shown before the field is restored")
	tuiCmd.Flags().String("log-file", "", "Write logs to this file while the UI owns the terminal")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, tuiCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("tui.revert_delay", "revert-delay")
	mustBind("tui.log_file", "log-file")
}

func runTUI(cmd *cobra.Command, args []string) error {
	revertDelay := viper.GetDuration("tui.revert_delay")
	logFile := viper.GetString("tui.log_file")

	// The screen owns stderr's terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger = newLogger(out, viper.GetBool("verbose"), viper.GetString("log-format"))
	slog.SetDefault(logger)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := tui.New(screen, tui.Options{
		Logger:      logger,
		RevertDelay: revertDelay,
	})
	return app.Run(ctx)
}
