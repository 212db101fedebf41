package mcptools

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/colorconverter/internal/palette"
)

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestConvertHandler(t *testing.T) {
	h := createConvertHandler()
	ctx := context.Background()

	tests := []struct {
		name  string
		input ConvertInput
		want  ConvertOutput
	}{
		{
			name:  "hex",
			input: ConvertInput{Field: "hex", Text: "#FF0000"},
			want:  ConvertOutput{Source: "Hex", Valid: true, Hex: "#FF0000", RGB: "255, 0, 0", HSL: "0, 100%, 50%"},
		},
		{
			name:  "rgb",
			input: ConvertInput{Field: "rgb", Text: "51, 102, 153"},
			want:  ConvertOutput{Source: "RGB", Valid: true, Hex: "#336699", RGB: "51, 102, 153", HSL: "210, 50%, 40%"},
		},
		{
			name:  "invalid hsl",
			input: ConvertInput{Field: "hsl", Text: "400, 50%, 50%"},
			want:  ConvertOutput{Source: "HSL", Hex: "Invalid HSL", RGB: "Invalid HSL", HSL: "400, 50%, 50%"},
		},
		{
			name:  "empty",
			input: ConvertInput{Field: "HEX", Text: "   "},
			want:  ConvertOutput{Source: "Hex", Empty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, out, err := h(ctx, nil, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Contains(t, textOf(t, res), "RGB: "+tt.want.RGB)
		})
	}
}

func TestConvertHandler_UnknownField(t *testing.T) {
	_, _, err := createConvertHandler()(context.Background(), nil, ConvertInput{Field: "cmyk", Text: "x"})
	require.Error(t, err)
}

func TestValidateHandler(t *testing.T) {
	h := createValidateHandler()
	ctx := context.Background()

	_, out, err := h(ctx, nil, ValidateInput{Text: "0, 100%, 50%"})
	require.NoError(t, err)
	assert.Equal(t, ValidateOutput{Valid: true, Format: "HSL", Hex: "#ff0000"}, out)

	_, out, err = h(ctx, nil, ValidateInput{Text: "336699", Format: "hex"})
	require.NoError(t, err)
	assert.Equal(t, ValidateOutput{Valid: true, Format: "Hex", Hex: "#336699"}, out)

	// Valid RGB text is not a valid HSL color.
	res, out, err := h(ctx, nil, ValidateInput{Text: "51, 102, 153", Format: "hsl"})
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.Contains(t, textOf(t, res), "not a valid color")

	_, _, err = h(ctx, nil, ValidateInput{Text: "x", Format: "lab"})
	require.Error(t, err)
}

func TestPaletteHandlers(t *testing.T) {
	store, err := palette.Open(filepath.Join(t.TempDir(), "palette.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	_, saved, err := createSaveColorHandler(store)(ctx, nil, SaveColorInput{Name: "steel", Color: "210, 50%, 40%"})
	require.NoError(t, err)
	assert.Equal(t, PaletteColor{Name: "steel", Hex: "#336699", RGB: "51, 102, 153", HSL: "210, 50%, 40%"}, saved)

	_, _, err = createSaveColorHandler(store)(ctx, nil, SaveColorInput{Name: "bad", Color: "nope"})
	require.Error(t, err)

	res, out, err := createListPaletteHandler(store)(ctx, nil, ListPaletteInput{})
	require.NoError(t, err)
	require.Len(t, out.Colors, 1)
	assert.Equal(t, saved, out.Colors[0])
	assert.Contains(t, textOf(t, res), "steel: #336699")
}

func TestRegister_ListTools(t *testing.T) {
	tests := []struct {
		name  string
		store bool
		want  []string
	}{
		{"without palette", false, []string{"convert_color", "validate_color"}},
		{"with palette", true, []string{"convert_color", "list_palette", "save_color", "validate_color"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var store *palette.Store
			if tt.store {
				s, err := palette.Open(filepath.Join(t.TempDir(), "palette.db"))
				require.NoError(t, err)
				defer s.Close()
				store = s
			}

			ctx := context.Background()
			server := NewServer("test", store, nil)
			clientTransport, serverTransport := mcp.NewInMemoryTransports()

			ss, err := server.Connect(ctx, serverTransport, nil)
			require.NoError(t, err)
			defer ss.Close()

			client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
			cs, err := client.Connect(ctx, clientTransport, nil)
			require.NoError(t, err)
			defer cs.Close()

			res, err := cs.ListTools(ctx, &mcp.ListToolsParams{})
			require.NoError(t, err)

			var names []string
			for _, tool := range res.Tools {
				names = append(names, tool.Name)
			}
			sort.Strings(names)
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestCallTool_OverTransport(t *testing.T) {
	ctx := context.Background()
	server := NewServer("test", nil, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "convert_color",
		Arguments: map[string]any{"field": "hex", "text": "#00ff00"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Hex: #00ff00\nRGB: 0, 255, 0\nHSL: 120, 100%, 50%", textOf(t, res))
}
