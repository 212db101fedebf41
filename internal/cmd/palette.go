package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
	"github.com/MeKo-Tech/colorconverter/internal/palette"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Manage named colors in the palette database",
}

var paletteAddCmd = &cobra.Command{
	Use:   "add <name> <color>",
	Short: "Save a color under a name (hex, RGB or HSL)",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPaletteAdd,
}

var paletteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved colors",
	Args:  cobra.NoArgs,
	RunE:  runPaletteList,
}

var paletteRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a saved color",
	Args:    cobra.ExactArgs(1),
	RunE:    runPaletteRm,
}

var paletteExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the palette as YAML",
	Args:  cobra.NoArgs,
	RunE:  runPaletteExport,
}

func init() {
	rootCmd.AddCommand(paletteCmd)
	paletteCmd.AddCommand(paletteAddCmd, paletteListCmd, paletteRmCmd, paletteExportCmd)

	paletteExportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	if err := viper.BindPFlag("palette.output", paletteExportCmd.Flags().Lookup("output")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
}

func openPalette() (*palette.Store, error) {
	path := viper.GetString("palette-db")
	store, err := palette.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open palette %s: %w", path, err)
	}
	return store, nil
}

func runPaletteAdd(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	store, err := openPalette()
	if err != nil {
		return err
	}
	defer store.Close()

	// Unquoted RGB and HSL colors arrive split across args.
	text := strings.Join(args[1:], " ")
	e, err := store.Save(cmd.Context(), args[0], text)
	if err != nil {
		return err
	}

	logger.Debug("palette color saved", "name", e.Name, "hex", e.Hex, "db", store.Path())
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s as %s\n", e.Name, e.Hex)
	return nil
}

func runPaletteList(cmd *cobra.Command, args []string) error {
	store, err := openPalette()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	return writePaletteTable(cmd.OutOrStdout(), entries)
}

func runPaletteRm(cmd *cobra.Command, args []string) error {
	store, err := openPalette()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}

func runPaletteExport(cmd *cobra.Command, args []string) error {
	output := viper.GetString("palette.output")

	store, err := openPalette()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	if output == "" {
		return palette.Export(cmd.OutOrStdout(), entries)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := palette.Export(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writePaletteTable prints one row per color with the name column padded to
// the widest (display width) name.
func writePaletteTable(w io.Writer, entries []palette.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "Palette is empty")
		return err
	}

	nameWidth := len("NAME")
	for _, e := range entries {
		nameWidth = max(nameWidth, runewidth.StringWidth(e.Name))
	}

	if _, err := fmt.Fprintf(w, "%s  %-7s  %-13s  %s\n", runewidth.FillRight("NAME", nameWidth), "HEX", "RGB", "HSL"); err != nil {
		return err
	}
	for _, e := range entries {
		text := colorspace.Describe(e.Color())
		if _, err := fmt.Fprintf(w, "%s  %-7s  %-13s  %s\n", runewidth.FillRight(e.Name, nameWidth), text.Hex, text.RGB, text.HSL); err != nil {
			return err
		}
	}
	return nil
}
