// Package tui is a terminal front end for the converter: three input fields
// kept in sync, with a copy key that writes the focused field to the
// terminal clipboard (OSC 52).
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/MeKo-Tech/colorconverter/internal/clipboard"
	"github.com/MeKo-Tech/colorconverter/internal/colorspace"
	"github.com/MeKo-Tech/colorconverter/internal/converter"
)

const (
	labelWidth = 6
	fieldWidth = 28
	marginX    = 2
	firstRow   = 2
	previewW   = 8
)

// Options configures an App.
type Options struct {
	// Clipboard defaults to the screen's OSC 52 clipboard.
	Clipboard clipboard.Clipboard
	// Scheduler defaults to timers whose callbacks are posted back to the
	// event loop.
	Scheduler   clipboard.Scheduler
	Logger      *slog.Logger
	RevertDelay time.Duration
}

// App owns the screen and the converter state. All state changes happen on
// the goroutine running Run (or calling HandleEvent).
type App struct {
	screen tcell.Screen
	conv   *converter.Converter
	copier *clipboard.Copier
	logger *slog.Logger
	fields [3]*fieldView
	focus  int
	status string
	quit   bool
}

// New creates an App drawing on screen. The screen must already be
// initialised.
func New(screen tcell.Screen, opts Options) *App {
	a := &App{
		screen: screen,
		conv:   converter.New(),
		logger: opts.Logger,
	}
	for i, f := range converter.Fields {
		a.fields[i] = newFieldView(f)
	}

	cb := opts.Clipboard
	if cb == nil {
		cb = clipboard.ClipboardFunc(func(_ context.Context, text string) error {
			screen.SetClipboard([]byte(text))
			return nil
		})
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = clipboard.TimerScheduler{Post: a.post}
	}

	a.copier = clipboard.NewCopier(clipboard.Config{
		Clipboard:   cb,
		Scheduler:   sched,
		Logger:      opts.Logger,
		RevertDelay: opts.RevertDelay,
	})
	return a
}

// post runs fn on the event loop.
func (a *App) post(fn func()) {
	if err := a.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		a.log().Warn("dropped scheduled callback", "error", err)
	}
}

// Run draws the UI and processes events until the user quits or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		a.post(func() { a.quit = true })
	})
	defer stop()

	a.log().Debug("tui started")
	for !a.quit {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			break
		}
		a.HandleEvent(ev)
	}
	a.copier.Flush()
	a.log().Debug("tui stopped")
	return nil
}

// Done reports whether the user asked to quit.
func (a *App) Done() bool { return a.quit }

// State returns the text shown in the three fields.
func (a *App) State() converter.State {
	var s converter.State
	for _, v := range a.fields {
		s.Set(v.field, v.Value())
	}
	return s
}

// Focused returns the field with keyboard focus.
func (a *App) Focused() converter.Field {
	return a.fields[a.focus].field
}

// HandleEvent applies one tcell event.
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok {
			fn()
		}
	case *tcell.EventKey:
		a.handleKey(ev)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	v := a.fields[a.focus]
	changed := false

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.quit = true
		return
	case tcell.KeyTab, tcell.KeyDown, tcell.KeyEnter:
		a.focus = (a.focus + 1) % len(a.fields)
		return
	case tcell.KeyBacktab, tcell.KeyUp:
		a.focus = (a.focus + len(a.fields) - 1) % len(a.fields)
		return
	case tcell.KeyCtrlY, tcell.KeyF2:
		a.copyFocused()
		return
	case tcell.KeyLeft:
		v.left()
		return
	case tcell.KeyRight:
		v.right()
		return
	case tcell.KeyHome, tcell.KeyCtrlA:
		v.home()
		return
	case tcell.KeyEnd, tcell.KeyCtrlE:
		v.end()
		return
	}

	// Typing into a field that still shows copy feedback restores it first.
	a.copier.Restore(v.field.String())

	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		changed = v.backspace()
	case tcell.KeyDelete:
		changed = v.del()
	case tcell.KeyCtrlU:
		changed = v.clear()
	case tcell.KeyRune:
		v.insert(ev.Rune())
		changed = true
	}

	if changed {
		a.edit(v)
	}
}

// edit recomputes the other two fields from v.
func (a *App) edit(v *fieldView) {
	u := a.conv.Edit(v.field, v.Value())
	for _, other := range a.fields {
		text, ok := u.Values[other.field]
		if !ok {
			continue
		}
		a.copier.Restore(other.field.String())
		other.SetValue(text)
	}
	a.status = ""
}

func (a *App) copyFocused() {
	v := a.fields[a.focus]
	out := a.copier.Copy(context.Background(), v.field.String(), v)
	switch out {
	case clipboard.OutcomeCopied:
		a.status = fmt.Sprintf("%s copied to clipboard", v.field)
	case clipboard.OutcomeFailed:
		a.status = fmt.Sprintf("could not copy %s", v.field)
	default:
		a.status = fmt.Sprintf("%s is empty", v.field)
	}
}

// Draw renders the whole UI and shows it.
func (a *App) Draw() {
	s := a.screen
	s.Clear()
	s.HideCursor()

	base := tcell.StyleDefault
	bold := base.Bold(true)
	dim := base.Dim(true)

	a.drawText(marginX, 0, "Color Converter", bold)

	for i, v := range a.fields {
		y := firstRow + i*2
		labelStyle := base
		if i == a.focus {
			labelStyle = bold
		}
		a.drawText(marginX, y, v.field.String(), labelStyle)
		a.drawField(marginX+labelWidth, y, v, i == a.focus)
	}

	a.drawPreview(marginX+labelWidth+fieldWidth+3, firstRow)

	helpY := firstRow + len(a.fields)*2 + 1
	a.drawText(marginX, helpY, "Tab/↑↓ move  Ctrl-Y copy  Ctrl-U clear  Esc quit", dim)
	if a.status != "" {
		a.drawText(marginX, helpY+1, a.status, base)
	}

	s.Show()
}

func (a *App) drawField(x, y int, v *fieldView, focused bool) {
	style := tcell.StyleDefault.Reverse(focused)
	if v.success {
		style = style.Foreground(tcell.ColorGreen)
	}

	for i := 0; i < fieldWidth; i++ {
		a.screen.SetContent(x+i, y, ' ', nil, style)
	}

	if len(v.value) == 0 {
		a.drawText(x, y, runewidth.Truncate(v.placeholder, fieldWidth, ""), style.Dim(true))
		if focused {
			a.screen.ShowCursor(x, y)
		}
		return
	}

	// Scroll so the cursor stays inside the box.
	start := 0
	for runewidth.StringWidth(string(v.value[start:v.cursor])) >= fieldWidth {
		start++
	}

	col := 0
	for i := start; i < len(v.value); i++ {
		w := runewidth.RuneWidth(v.value[i])
		if col+w > fieldWidth {
			break
		}
		if focused && i == v.cursor {
			a.screen.ShowCursor(x+col, y)
		}
		a.screen.SetContent(x+col, y, v.value[i], nil, style)
		col += w
	}
	if focused && v.cursor == len(v.value) && col < fieldWidth {
		a.screen.ShowCursor(x+col, y)
	}
}

// drawPreview paints a block in the current color when the last edit was
// valid.
func (a *App) drawPreview(x, y int) {
	c, err := colorspace.Parse(colorspace.FormatHex, a.fields[0].Value())
	if err != nil {
		return
	}
	style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	for dy := 0; dy < len(a.fields)*2-1; dy++ {
		for dx := 0; dx < previewW; dx++ {
			a.screen.SetContent(x+dx, y+dy, ' ', nil, style)
		}
	}
}

func (a *App) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		a.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (a *App) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.Default()
}
