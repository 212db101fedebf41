package converter

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
)

// Field identifies one of the three synchronized text fields.
type Field int

const (
	FieldHex Field = iota
	FieldRGB
	FieldHSL
)

// Fields lists the fields in display order.
var Fields = [3]Field{FieldHex, FieldRGB, FieldHSL}

// String returns the field's display name, which is also its placeholder.
func (f Field) String() string {
	return f.Format().String()
}

// Format returns the color notation the field holds.
func (f Field) Format() colorspace.Format {
	switch f {
	case FieldRGB:
		return colorspace.FormatRGB
	case FieldHSL:
		return colorspace.FormatHSL
	default:
		return colorspace.FormatHex
	}
}

// Others returns the two fields that are recomputed when f is edited.
func (f Field) Others() [2]Field {
	switch f {
	case FieldRGB:
		return [2]Field{FieldHex, FieldHSL}
	case FieldHSL:
		return [2]Field{FieldHex, FieldRGB}
	default:
		return [2]Field{FieldRGB, FieldHSL}
	}
}

// InvalidMarker is the text written into the dependent fields when f holds
// text that cannot be parsed.
func (f Field) InvalidMarker() string {
	return "Invalid " + f.String()
}

// ParseField maps a field name ("hex", "rgb", "hsl", any case) to a Field.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hex":
		return FieldHex, nil
	case "rgb":
		return FieldRGB, nil
	case "hsl":
		return FieldHSL, nil
	default:
		return 0, fmt.Errorf("unknown field %q: must be hex, rgb or hsl", name)
	}
}

// MarshalText implements encoding.TextMarshaler so fields serialize by name.
func (f Field) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(f.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Field) UnmarshalText(b []byte) error {
	parsed, err := ParseField(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
