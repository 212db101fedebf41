package tui

import (
	"github.com/MeKo-Tech/colorconverter/internal/converter"
)

// fieldView is the on-screen state of one input. It implements
// clipboard.Target so copy feedback can be shown in place.
type fieldView struct {
	field       converter.Field
	value       []rune
	cursor      int
	placeholder string
	success     bool
}

func newFieldView(f converter.Field) *fieldView {
	return &fieldView{field: f, placeholder: f.String()}
}

func (v *fieldView) Value() string { return string(v.value) }

// SetValue replaces the text and moves the cursor to the end.
func (v *fieldView) SetValue(s string) {
	v.value = []rune(s)
	v.cursor = len(v.value)
}

func (v *fieldView) Placeholder() string     { return v.placeholder }
func (v *fieldView) SetPlaceholder(p string) { v.placeholder = p }
func (v *fieldView) SetSuccess(on bool)      { v.success = on }

func (v *fieldView) insert(r rune) {
	v.value = append(v.value, 0)
	copy(v.value[v.cursor+1:], v.value[v.cursor:])
	v.value[v.cursor] = r
	v.cursor++
}

// backspace deletes the rune before the cursor. It reports whether the text
// changed.
func (v *fieldView) backspace() bool {
	if v.cursor == 0 {
		return false
	}
	v.value = append(v.value[:v.cursor-1], v.value[v.cursor:]...)
	v.cursor--
	return true
}

// del deletes the rune under the cursor.
func (v *fieldView) del() bool {
	if v.cursor >= len(v.value) {
		return false
	}
	v.value = append(v.value[:v.cursor], v.value[v.cursor+1:]...)
	return true
}

func (v *fieldView) clear() bool {
	if len(v.value) == 0 {
		return false
	}
	v.value = v.value[:0]
	v.cursor = 0
	return true
}

func (v *fieldView) left() {
	if v.cursor > 0 {
		v.cursor--
	}
}

func (v *fieldView) right() {
	if v.cursor < len(v.value) {
		v.cursor++
	}
}

func (v *fieldView) home() { v.cursor = 0 }
func (v *fieldView) end()  { v.cursor = len(v.value) }
