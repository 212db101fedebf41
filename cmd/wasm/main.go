//go:build js && wasm
// +build js,wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"syscall/js"

	"github.com/MeKo-Tech/colorconverter/internal/clipboard"
	"github.com/MeKo-Tech/colorconverter/internal/converter"
)

// inputTarget adapts a DOM input element to clipboard.Target.
type inputTarget struct {
	el js.Value
}

func (t inputTarget) Value() string           { return t.el.Get("value").String() }
func (t inputTarget) SetValue(v string)       { t.el.Set("value", v) }
func (t inputTarget) Placeholder() string     { return t.el.Get("placeholder").String() }
func (t inputTarget) SetPlaceholder(p string) { t.el.Set("placeholder", p) }

func (t inputTarget) SetSuccess(on bool) {
	method := "remove"
	if on {
		method = "add"
	}
	t.el.Get("classList").Call(method, "is-success")
}

// writeClipboard resolves navigator.clipboard.writeText. It must not be
// called from a JS callback goroutine, since it waits for the promise.
func writeClipboard(ctx context.Context, text string) error {
	cb := js.Global().Get("navigator").Get("clipboard")
	if cb.IsUndefined() {
		return clipboard.ErrUnavailable
	}

	done := make(chan error, 1)
	var onOK, onErr js.Func
	onOK = js.FuncOf(func(this js.Value, args []js.Value) any {
		done <- nil
		return nil
	})
	onErr = js.FuncOf(func(this js.Value, args []js.Value) any {
		msg := "clipboard write rejected"
		if len(args) > 0 {
			msg = args[0].Call("toString").String()
		}
		done <- errors.New(msg)
		return nil
	})
	defer onOK.Release()
	defer onErr.Release()

	cb.Call("writeText", text).Call("then", onOK).Call("catch", onErr)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type page struct {
	conv   *converter.Converter
	copier *clipboard.Copier
	inputs map[converter.Field]js.Value
}

func newPage() *page {
	return &page{
		conv: converter.New(),
		copier: clipboard.NewCopier(clipboard.Config{
			Clipboard: clipboard.ClipboardFunc(writeClipboard),
			Scheduler: clipboard.TimerScheduler{},
			Logger:    slog.Default(),
		}),
		inputs: make(map[converter.Field]js.Value),
	}
}

// bind finds the three inputs by placeholder and wires their input events
// and copy icons.
func (p *page) bind() error {
	doc := js.Global().Get("document")
	for _, f := range converter.Fields {
		el := doc.Call("querySelector", fmt.Sprintf(`input[placeholder="%s"]`, f))
		if el.IsNull() {
			return fmt.Errorf("missing %s input", f)
		}
		p.inputs[f] = el
	}

	for f, el := range p.inputs {
		field := f
		// Editing a field that shows copy feedback restores it first.
		el.Call("addEventListener", "beforeinput", js.FuncOf(func(this js.Value, args []js.Value) any {
			p.copier.Restore(field.String())
			return nil
		}))
		el.Call("addEventListener", "input", js.FuncOf(func(this js.Value, args []js.Value) any {
			p.edit(field)
			return nil
		}))
	}

	icons := doc.Call("querySelectorAll", ".copy-icon")
	for i := 0; i < icons.Length(); i++ {
		icon := icons.Index(i)
		field, err := converter.ParseField(icon.Get("dataset").Get("target").String())
		if err != nil {
			continue
		}
		icon.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
			target := inputTarget{el: p.inputs[field]}
			go p.copier.Copy(context.Background(), field.String(), target)
			return nil
		}))
	}
	return nil
}

func (p *page) edit(field converter.Field) {
	u := p.conv.Edit(field, p.inputs[field].Get("value").String())
	for f, text := range u.Values {
		p.copier.Restore(f.String())
		p.inputs[f].Set("value", text)
	}
}

// bindPage returns colorconverterBind, which the page calls once the module
// is running.
func bindPage(p *page) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		if err := p.bind(); err != nil {
			return map[string]any{"error": err.Error()}
		}
		return map[string]any{"status": "ready"}
	})
}

// editField is exposed for scripting: colorconverterEdit("rgb", "0, 0, 255")
// returns the update as a JSON string.
func editField(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return map[string]any{"error": "missing arguments"}
	}
	field, err := converter.ParseField(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	data, err := json.Marshal(converter.OnFieldEdited(field, args[1].String()))
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to encode update: %v", err)}
	}
	return string(data)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("colorconverterBind", bindPage(newPage()))
	js.Global().Set("colorconverterEdit", js.FuncOf(editField))

	fmt.Println("ColorConverter WASM module loaded")
	<-c
}
