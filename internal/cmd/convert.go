package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
	"github.com/MeKo-Tech/colorconverter/internal/converter"
)

var convertCmd = &cobra.Command{
	Use:   "convert <color>",
	Short: "Convert a color and print all three notations",
	Long: `Convert a color typed into one field and print the hex, RGB and HSL fields.

The field is taken from --from, or detected from the text when --from is not
given. Text that does not parse prints "Invalid <Format>" in the other fields.

Examples:
  colorconverter convert '#336699'
  colorconverter convert --from rgb 51, 102, 153
  colorconverter convert --json '210, 50%, 40%'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("from", "", "Field the color is typed into: hex, rgb or hsl (default: detect)")
	convertCmd.Flags().Bool("json", false, "Print the result as JSON")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"convert.from", "from"},
		{"convert.json", "json"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, convertCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	from := viper.GetString("convert.from")
	asJSON := viper.GetBool("convert.json")

	if logger == nil {
		initLogging()
	}

	// Unquoted "51, 102, 153" arrives as three args.
	text := strings.Join(args, " ")

	field, err := resolveField(from, text)
	if err != nil {
		return err
	}

	logger.Debug("converting color", "field", field, "text", text)
	return writeConversion(cmd.OutOrStdout(), field, text, asJSON)
}

// resolveField returns the field named by from, or the field whose notation
// text is shaped like. Out-of-range values keep their field so the output
// says "Invalid RGB" rather than "Invalid Hex".
func resolveField(from, text string) (converter.Field, error) {
	if from != "" {
		return converter.ParseField(from)
	}

	switch colorspace.DetectFormat(text) {
	case colorspace.FormatRGB:
		return converter.FieldRGB, nil
	case colorspace.FormatHSL:
		return converter.FieldHSL, nil
	default:
		return converter.FieldHex, nil
	}
}

type conversionJSON struct {
	converter.State
	Source converter.Field `json:"source"`
	Valid  bool            `json:"valid"`
}

func writeConversion(w io.Writer, field converter.Field, text string, asJSON bool) error {
	conv := converter.New()
	u := conv.Edit(field, strings.TrimSpace(text))
	state := conv.State()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(conversionJSON{State: state, Source: field, Valid: u.Valid})
	}

	for _, f := range converter.Fields {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f, state.Get(f)); err != nil {
			return err
		}
	}
	return nil
}
