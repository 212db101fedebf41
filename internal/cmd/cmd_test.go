package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
	"github.com/MeKo-Tech/colorconverter/internal/converter"
	"github.com/MeKo-Tech/colorconverter/internal/palette"
	"github.com/MeKo-Tech/colorconverter/internal/worker"
)

func TestResolveField(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		text    string
		want    converter.Field
		wantErr bool
	}{
		{name: "detect hex", text: "#336699", want: converter.FieldHex},
		{name: "detect rgb", text: "51, 102, 153", want: converter.FieldRGB},
		{name: "detect hsl", text: "210, 50%, 40%", want: converter.FieldHSL},
		{name: "undetectable falls back to hex", text: "banana", want: converter.FieldHex},
		{name: "out of range rgb", text: "999,0,0", want: converter.FieldRGB},
		{name: "out of range hsl", text: "361, 0%, 0%", want: converter.FieldHSL},
		{name: "explicit", from: "HSL", text: "51, 102, 153", want: converter.FieldHSL},
		{name: "unknown field", from: "cmyk", text: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveField(tt.from, tt.text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteConversion(t *testing.T) {
	tests := []struct {
		name  string
		field converter.Field
		text  string
		want  string
	}{
		{
			name:  "hex",
			field: converter.FieldHex,
			text:  "#FF0000",
			want:  "Hex: #FF0000\nRGB: 255, 0, 0\nHSL: 0, 100%, 50%\n",
		},
		{
			name:  "hsl",
			field: converter.FieldHSL,
			text:  " 210, 50%, 40% ",
			want:  "Hex: #336699\nRGB: 51, 102, 153\nHSL: 210, 50%, 40%\n",
		},
		{
			name:  "invalid rgb",
			field: converter.FieldRGB,
			text:  "256, 0, 0",
			want:  "Hex: Invalid RGB\nRGB: 256, 0, 0\nHSL: Invalid RGB\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeConversion(&buf, tt.field, tt.text, false))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteConversion_DetectedOutOfRange(t *testing.T) {
	field, err := resolveField("", "999,0,0")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeConversion(&buf, field, "999,0,0", false))
	assert.Equal(t, "Hex: Invalid RGB\nRGB: 999,0,0\nHSL: Invalid RGB\n", buf.String())
}

func TestWriteConversion_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConversion(&buf, converter.FieldRGB, "0, 0, 255", true))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]any{
		"hex":    "#0000ff",
		"rgb":    "0, 0, 255",
		"hsl":    "240, 100%, 50%",
		"source": "rgb",
		"valid":  true,
	}, got)
}

func TestConvertCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"convert", "51,", "102,", "153"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "Hex: #336699\nRGB: 51, 102, 153\nHSL: 210, 50%, 40%\n", buf.String())
}

func TestParseColorSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    worker.Task
		wantErr bool
	}{
		{spec: "#ff8800", want: worker.Task{Color: colorspace.RGB{R: 255, G: 136}}},
		{spec: "brand=51, 102, 153", want: worker.Task{Name: "brand", Color: colorspace.RGB{R: 51, G: 102, B: 153}}},
		{spec: " sky = 210, 50%, 40%", want: worker.Task{Name: "sky", Color: colorspace.RGB{R: 51, G: 102, B: 153}}},
		{spec: "=#ffffff", wantErr: true},
		{spec: "not-a-color", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseColorSpec(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorLines(t *testing.T) {
	input := `# brand colors
#336699
accent=255, 136, 0

# grays
mid=0, 0%, 50%
`
	tasks, err := parseColorLines(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "#336699", tasks[0].Label())
	assert.Equal(t, "accent", tasks[1].Label())
	assert.Equal(t, colorspace.RGB{R: 128, G: 128, B: 128}, tasks[2].Color)

	_, err = parseColorLines(strings.NewReader("#336699\nbogus\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseColorArgs(t *testing.T) {
	tasks, err := parseColorArgs([]string{"#000000", "white=#ffffff"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "white", tasks[1].Name)

	_, err = parseColorArgs([]string{"#00000"})
	require.Error(t, err)
}

func TestWritePaletteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePaletteTable(&buf, nil))
	assert.Equal(t, "Palette is empty\n", buf.String())

	buf.Reset()
	require.NoError(t, writePaletteTable(&buf, []palette.Entry{
		{Name: "steel", Hex: "#336699"},
		{Name: "red", Hex: "#ff0000"},
	}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME   HEX      RGB            HSL", lines[0])
	assert.Equal(t, "steel  #336699  51, 102, 153   210, 50%, 40%", lines[1])
	assert.Equal(t, "red    #ff0000  255, 0, 0      0, 100%, 50%", lines[2])
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, false, "json")
	l.Debug("hidden")
	l.Info("shown", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])

	buf.Reset()
	l = newLogger(&buf, true, "text")
	l.Debug("visible")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=visible")
}
