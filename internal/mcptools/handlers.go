package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
	"github.com/MeKo-Tech/colorconverter/internal/converter"
	"github.com/MeKo-Tech/colorconverter/internal/palette"
)

// --- convert_color ---

type ConvertInput struct {
	Field string `json:"field" jsonschema:"The edited field: hex, rgb or hsl"`
	Text  string `json:"text" jsonschema:"The text typed into the field, e.g. #336699, 51, 102, 153 or 210, 50%, 40%"`
}

type ConvertOutput struct {
	Source string `json:"source"`
	Valid  bool   `json:"valid"`
	Empty  bool   `json:"empty"`
	Hex    string `json:"hex"`
	RGB    string `json:"rgb"`
	HSL    string `json:"hsl"`
}

func createConvertHandler() mcp.ToolHandlerFor[ConvertInput, ConvertOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ConvertInput) (*mcp.CallToolResult, ConvertOutput, error) {
		field, err := converter.ParseField(input.Field)
		if err != nil {
			return nil, ConvertOutput{}, err
		}

		var state converter.State
		state.Set(field, strings.TrimSpace(input.Text))
		u := converter.OnFieldEdited(field, input.Text)
		state.Apply(u)

		out := ConvertOutput{
			Source: field.String(),
			Valid:  u.Valid,
			Empty:  u.Empty,
			Hex:    state.Hex,
			RGB:    state.RGB,
			HSL:    state.HSL,
		}

		text := fmt.Sprintf("Hex: %s\nRGB: %s\nHSL: %s", out.Hex, out.RGB, out.HSL)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, out, nil
	}
}

// --- validate_color ---

type ValidateInput struct {
	Text   string `json:"text" jsonschema:"The color text to check"`
	Format string `json:"format,omitempty" jsonschema:"Restrict the check to one notation: hex, rgb or hsl"`
}

type ValidateOutput struct {
	Valid  bool   `json:"valid"`
	Format string `json:"format,omitempty"`
	Hex    string `json:"hex,omitempty"`
}

func createValidateHandler() mcp.ToolHandlerFor[ValidateInput, ValidateOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, ValidateOutput, error) {
		var (
			c      colorspace.RGB
			format colorspace.Format
			err    error
		)
		if input.Format != "" {
			format, err = colorspace.ParseFormat(input.Format)
			if err != nil {
				return nil, ValidateOutput{}, err
			}
			c, err = colorspace.Parse(format, input.Text)
		} else {
			c, format, err = colorspace.ParseAny(input.Text)
		}

		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("%q is not a valid color", input.Text)}},
			}, ValidateOutput{Valid: false}, nil
		}

		out := ValidateOutput{Valid: true, Format: format.String(), Hex: colorspace.RGBToHex(c)}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Valid %s color (%s)", out.Format, out.Hex)}},
		}, out, nil
	}
}

// --- list_palette ---

type ListPaletteInput struct{}

type PaletteColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	RGB  string `json:"rgb"`
	HSL  string `json:"hsl"`
}

type ListPaletteOutput struct {
	Colors []PaletteColor `json:"colors"`
}

func createListPaletteHandler(store *palette.Store) mcp.ToolHandlerFor[ListPaletteInput, ListPaletteOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListPaletteInput) (*mcp.CallToolResult, ListPaletteOutput, error) {
		entries, err := store.List(ctx)
		if err != nil {
			return nil, ListPaletteOutput{}, err
		}

		out := ListPaletteOutput{Colors: make([]PaletteColor, 0, len(entries))}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Palette: %d colors\n", len(entries))
		for _, e := range entries {
			pc := paletteColor(e)
			out.Colors = append(out.Colors, pc)
			fmt.Fprintf(&sb, "- %s: %s | %s | %s\n", pc.Name, pc.Hex, pc.RGB, pc.HSL)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: sb.String()}},
		}, out, nil
	}
}

// --- save_color ---

type SaveColorInput struct {
	Name  string `json:"name" jsonschema:"The palette name to store the color under"`
	Color string `json:"color" jsonschema:"The color in hex, RGB or HSL notation"`
}

func createSaveColorHandler(store *palette.Store) mcp.ToolHandlerFor[SaveColorInput, PaletteColor] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SaveColorInput) (*mcp.CallToolResult, PaletteColor, error) {
		e, err := store.Save(ctx, input.Name, input.Color)
		if err != nil {
			return nil, PaletteColor{}, err
		}

		pc := paletteColor(e)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Saved %s as %s", pc.Name, pc.Hex)}},
		}, pc, nil
	}
}

func paletteColor(e palette.Entry) PaletteColor {
	text := colorspace.Describe(e.Color())
	return PaletteColor{Name: e.Name, Hex: text.Hex, RGB: text.RGB, HSL: text.HSL}
}
