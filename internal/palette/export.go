package palette

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
)

// ExportEntry is one color in an exported palette.
type ExportEntry struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
	RGB  string `yaml:"rgb"`
	HSL  string `yaml:"hsl"`
}

// exportDoc is the top-level YAML document.
type exportDoc struct {
	Colors []ExportEntry `yaml:"colors"`
}

// Export writes entries as a YAML document with all three notations per
// color.
func Export(w io.Writer, entries []Entry) error {
	doc := exportDoc{Colors: make([]ExportEntry, 0, len(entries))}
	for _, e := range entries {
		text := colorspace.Describe(e.Color())
		doc.Colors = append(doc.Colors, ExportEntry{
			Name: e.Name,
			Hex:  text.Hex,
			RGB:  text.RGB,
			HSL:  text.HSL,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode palette: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode palette: %w", err)
	}
	return nil
}
