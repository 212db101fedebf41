// Package converter keeps the hex, RGB and HSL text fields in sync.
//
// Each edit is handled on its own: the edited field is the only source of
// truth and the other two are recomputed from it. Nothing tries to reconcile
// all three fields at once.
package converter

import (
	"strings"

	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
)

// Update is the result of editing one field: new text for the two other
// fields. The edited field itself is never part of Values.
type Update struct {
	Color  *colorspace.RGB  `json:"color,omitempty"`
	Values map[Field]string `json:"values"`
	Source Field            `json:"source"`
	Valid  bool             `json:"valid"`
	Empty  bool             `json:"empty"`
}

// OnFieldEdited computes the update for an edit of field to text.
//
// Empty text clears the other fields. Text that does not parse sets them to
// the "Invalid <Format>" marker. Valid text is converted and written in
// canonical form.
func OnFieldEdited(field Field, text string) Update {
	others := field.Others()
	u := Update{
		Source: field,
		Values: make(map[Field]string, len(others)),
	}

	text = strings.TrimSpace(text)
	if text == "" {
		u.Empty = true
		for _, f := range others {
			u.Values[f] = ""
		}
		return u
	}

	c, err := colorspace.Parse(field.Format(), text)
	if err != nil {
		for _, f := range others {
			u.Values[f] = field.InvalidMarker()
		}
		return u
	}

	u.Valid = true
	u.Color = &c
	canonical := colorspace.Describe(c)
	for _, f := range others {
		switch f {
		case FieldHex:
			u.Values[f] = canonical.Hex
		case FieldRGB:
			u.Values[f] = canonical.RGB
		case FieldHSL:
			u.Values[f] = canonical.HSL
		}
	}
	return u
}

// State is the text currently shown in the three fields.
type State struct {
	Hex string `json:"hex"`
	RGB string `json:"rgb"`
	HSL string `json:"hsl"`
}

// Get returns the text of field f.
func (s State) Get(f Field) string {
	switch f {
	case FieldRGB:
		return s.RGB
	case FieldHSL:
		return s.HSL
	default:
		return s.Hex
	}
}

// Set replaces the text of field f.
func (s *State) Set(f Field, text string) {
	switch f {
	case FieldRGB:
		s.RGB = text
	case FieldHSL:
		s.HSL = text
	default:
		s.Hex = text
	}
}

// Apply writes the update's values into the state.
func (s *State) Apply(u Update) {
	for f, v := range u.Values {
		s.Set(f, v)
	}
}

// Converter owns the field state for one UI surface. It is not safe for
// concurrent use; hosts call it from their UI goroutine.
type Converter struct {
	state State
}

// New returns a Converter with all fields empty.
func New() *Converter {
	return &Converter{}
}

// Edit records text as typed in field, recomputes the other two fields and
// returns the update that was applied.
func (c *Converter) Edit(field Field, text string) Update {
	c.state.Set(field, text)
	u := OnFieldEdited(field, text)
	c.state.Apply(u)
	return u
}

// State returns a copy of the current field texts.
func (c *Converter) State() State {
	return c.state
}

// Text returns the current text of field f.
func (c *Converter) Text(f Field) string {
	return c.state.Get(f)
}
