package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vnav/internal/config"
	"github.com/dshills/vnav/internal/engine/buffer"
	"github.com/dshills/vnav/internal/event"
	"github.com/dshills/vnav/internal/event/events"
	"github.com/dshills/vnav/internal/renderer/backend"
)

// fakeBackend records draws and feeds events from a channel.
type fakeBackend struct {
	mu      sync.Mutex
	width   int
	height  int
	initErr error
	shows   int
	syncs   int
	cells   map[[2]int]rune
	events  chan backend.Event
	closed  bool
}

func newFakeBackend(width, height int) *fakeBackend {
	return &fakeBackend{
		width:  width,
		height: height,
		cells:  make(map[[2]int]rune),
		events: make(chan backend.Event, 16),
	}
}

func (f *fakeBackend) Init() error { return f.initErr }

func (f *fakeBackend) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
}

func (f *fakeBackend) Size() (int, int) { return f.width, f.height }

func (f *fakeBackend) SetContent(x, y int, mainc rune, _ []rune, _ backend.Style) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cells[[2]int{x, y}] = mainc
}

func (f *fakeBackend) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cells = make(map[[2]int]rune)
}

func (f *fakeBackend) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shows++
}

func (f *fakeBackend) Sync() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncs++
}

func (f *fakeBackend) ShowCursor(int, int) {}
func (f *fakeBackend) HideCursor()         {}

func (f *fakeBackend) PollEvent() (backend.Event, bool) {
	ev, ok := <-f.events
	return ev, ok
}

func (f *fakeBackend) PostEvent(ev backend.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return backend.ErrClosed
	}
	f.events <- ev
	return nil
}

// row returns the text drawn on screen row y.
func (f *fakeBackend) row(y int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sb strings.Builder
	for x := 0; x < f.width; x++ {
		r, ok := f.cells[[2]int{x, y}]
		if !ok {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTestApp builds an application over a fake 40x10 terminal and applies
// the initial resize, as Run would.
func newTestApp(t *testing.T, text string, opts Options) (*Application, *fakeBackend) {
	t.Helper()
	if opts.File == "" && text != "" {
		opts.File = writeFile(t, "doc.txt", text)
	}
	a, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(a.close)

	be := newFakeBackend(40, 10)
	a.SetBackend(be)
	a.handleEvent(context.Background(), backend.Event{Type: backend.EventResize, Width: 40, Height: 10})
	a.loop.RunPending()
	return a, be
}

// press handles ev and finishes the turn, releasing any navline lock.
func press(a *Application, ev backend.Event) {
	a.handleEvent(context.Background(), ev)
	a.loop.RunPending()
}

func TestNew_Defaults(t *testing.T) {
	a, err := New(Options{})
	require.NoError(t, err)
	defer a.close()

	assert.Equal(t, 1, a.Editor().LineCount())
	assert.Equal(t, config.Default(), a.Config())
	assert.Equal(t, buffer.Point{}, a.Editor().Cursor())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.TabWidth = 0

	_, err := New(Options{Config: cfg})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrValidationFailed)

	var ce *ComponentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "config", ce.Component)
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(Options{File: filepath.Join(t.TempDir(), "absent.txt")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplication_GoalColumnThroughKeys(t *testing.T) {
	a, _ := newTestApp(t, "abcdefgh\nab\nabcdefgh", Options{})

	for i := 0; i < 5; i++ {
		press(a, runeEvent('l'))
	}
	assert.Equal(t, buffer.Point{Line: 0, Column: 5}, a.Editor().Cursor())

	press(a, runeEvent('j'))
	assert.Equal(t, buffer.Point{Line: 1, Column: 2}, a.Editor().Cursor())
	x, ok := a.Editor().GoalX()
	require.True(t, ok)
	assert.Equal(t, 5, x)

	press(a, runeEvent('j'))
	assert.Equal(t, buffer.Point{Line: 2, Column: 5}, a.Editor().Cursor())

	press(a, runeEvent('h'))
	_, ok = a.Editor().GoalX()
	assert.False(t, ok, "horizontal move forgets the goal")
}

func TestApplication_Quit(t *testing.T) {
	a, _ := newTestApp(t, "one", Options{})

	press(a, runeEvent('q'))

	select {
	case <-a.Loop().Stopped():
	default:
		t.Fatal("quit did not stop the loop")
	}
}

func TestApplication_ToggleWrap(t *testing.T) {
	a, _ := newTestApp(t, strings.Repeat("x", 100), Options{})
	assert.Equal(t, 0, a.Editor().WrapWidth())

	press(a, runeEvent('w'))
	assert.True(t, a.Config().Editor.SoftWrap)
	assert.Equal(t, a.renderer.TextWidth(a.Editor()), a.Editor().WrapWidth())
	assert.Greater(t, len(a.Editor().LayoutLine(0).Rows()), 1)
}

func TestApplication_MouseClick(t *testing.T) {
	a, _ := newTestApp(t, "hello\nworld", Options{})
	gutter := a.renderer.GutterWidth(a.Editor())

	press(a, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseLeft, MouseX: gutter + 3, MouseY: 1})
	assert.Equal(t, buffer.Point{Line: 1, Column: 3}, a.Editor().Cursor())

	// Clicks on the status line are ignored.
	press(a, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseLeft, MouseX: gutter, MouseY: 9})
	assert.Equal(t, buffer.Point{Line: 1, Column: 3}, a.Editor().Cursor())
}

func TestApplication_MouseWheel(t *testing.T) {
	a, _ := newTestApp(t, "1\n2\n3\n4\n5\n6", Options{})

	press(a, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelDown})
	assert.Equal(t, 3, a.Editor().Cursor().Line)

	press(a, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelUp})
	assert.Equal(t, 0, a.Editor().Cursor().Line)
}

func TestApplication_DrawIsCoalesced(t *testing.T) {
	a, be := newTestApp(t, "a\nb\nc", Options{})
	before := a.renderer.FrameCount()

	a.handleEvent(context.Background(), runeEvent('j'))
	a.handleEvent(context.Background(), runeEvent('j'))
	a.loop.RunPending()

	assert.Equal(t, before+1, a.renderer.FrameCount())
	assert.Contains(t, be.row(2), "c")
}

func TestApplication_Redraw(t *testing.T) {
	a, be := newTestApp(t, "a", Options{})

	press(a, keyEvent(backend.KeyCtrlL))
	assert.Equal(t, 1, be.syncs)
}

func TestApplication_StatusText(t *testing.T) {
	a, be := newTestApp(t, "abc\nd", Options{})

	status := a.statusText()
	assert.Contains(t, status, "doc.txt")
	assert.Contains(t, status, "Ln 1, Col 1")
	assert.Contains(t, status, "x=-")
	assert.NotContains(t, status, "lock")

	press(a, runeEvent('$'))
	a.handleEvent(context.Background(), runeEvent('j'))
	status = a.statusText()
	assert.Contains(t, status, "Ln 2, Col 2")
	assert.Contains(t, status, "x=3")
	assert.Contains(t, status, "lock")

	a.loop.RunPending()
	assert.Contains(t, be.row(9), "Ln 2, Col 2")
}

func TestApplication_ScratchStatus(t *testing.T) {
	a, _ := newTestApp(t, "", Options{})
	assert.Contains(t, a.statusText(), "[scratch]")
}

func TestApplication_ViewportResized(t *testing.T) {
	a, _ := newTestApp(t, "a", Options{})

	got := make(chan events.ViewportResized, 1)
	_, err := a.Bus().Subscribe(events.TopicViewportResized, event.AsHandler(
		func(_ context.Context, ev event.Event[events.ViewportResized]) error {
			got <- ev.Payload
			return nil
		}))
	require.NoError(t, err)

	press(a, backend.Event{Type: backend.EventResize, Width: 60, Height: 20})

	ev := <-got
	assert.Equal(t, 19, ev.Height)
	assert.Equal(t, 60-a.renderer.GutterWidth(a.Editor()), ev.Width)
}

func TestApplication_ApplyReload(t *testing.T) {
	var out bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Level: "info", Output: &out})
	require.NoError(t, err)

	a, _ := newTestApp(t, "\tx", Options{Logger: logger, ConfigPath: "vnav.toml"})

	reloaded := make(chan string, 1)
	_, err = a.Bus().Subscribe(events.TopicConfigReloaded, event.AsHandler(
		func(_ context.Context, ev event.Event[events.ConfigReloaded]) error {
			reloaded <- ev.Payload.Path
			return nil
		}))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Editor.TabWidth = 8
	cfg.Editor.SoftWrap = true
	cfg.Editor.ScrollOff = 1
	cfg.Logging.Level = "debug"

	a.applyReload(context.Background(), cfg, nil)

	assert.Equal(t, "vnav.toml", <-reloaded)
	assert.Equal(t, 8, a.Editor().Measurer().TabWidth())
	assert.Equal(t, 8, a.Editor().LayoutLine(0).Width()-1)
	assert.Equal(t, 1, a.renderer.Options().ScrollOff)
	assert.Positive(t, a.Editor().WrapWidth())
	assert.Equal(t, slog.LevelDebug, logger.Level())
	assert.Contains(t, a.statusText(), "config reloaded")
}

func TestApplication_ApplyReloadFailure(t *testing.T) {
	a, _ := newTestApp(t, "x", Options{ConfigPath: "vnav.toml"})

	failed := make(chan events.ConfigReloadFailed, 1)
	_, err := a.Bus().Subscribe(events.TopicConfigReloadFailed, event.AsHandler(
		func(_ context.Context, ev event.Event[events.ConfigReloadFailed]) error {
			failed <- ev.Payload
			return nil
		}))
	require.NoError(t, err)

	a.applyReload(context.Background(), nil, errors.New("bad tab width"))

	ev := <-failed
	assert.Equal(t, "vnav.toml", ev.Path)
	assert.Equal(t, "bad tab width", ev.Error)
	assert.Equal(t, 4, a.Config().Editor.TabWidth, "old settings stay")
	assert.Contains(t, a.statusText(), "bad tab width")
}

func TestApplication_DebugTap(t *testing.T) {
	var out bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Level: "debug", Output: &out})
	require.NoError(t, err)

	a, _ := newTestApp(t, "a\nb", Options{Logger: logger, Debug: true})
	press(a, runeEvent('j'))

	logs := out.String()
	assert.Contains(t, logs, `"topic":"cursor.moved"`)
	assert.Contains(t, logs, `"topic":"cursor.selection.changed"`)
	assert.Contains(t, logs, `"source":"editor"`)
}

func TestApplication_RunWithoutBackend(t *testing.T) {
	a, err := New(Options{})
	require.NoError(t, err)

	assert.ErrorIs(t, a.Run(context.Background()), ErrNoBackend)
}

func TestApplication_RunInitError(t *testing.T) {
	a, err := New(Options{})
	require.NoError(t, err)

	be := newFakeBackend(40, 10)
	be.initErr = errors.New("no tty")
	a.SetBackend(be)

	err = a.Run(context.Background())
	assert.ErrorIs(t, err, be.initErr)
}

func runAsync(ctx context.Context, a *Application) <-chan error {
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	return done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestApplication_RunQuit(t *testing.T) {
	a, err := New(Options{File: writeFile(t, "doc.txt", "one\ntwo\nthree")})
	require.NoError(t, err)
	be := newFakeBackend(40, 10)
	a.SetBackend(be)

	done := runAsync(context.Background(), a)

	require.NoError(t, be.PostEvent(runeEvent('j')))
	require.NoError(t, be.PostEvent(runeEvent('j')))
	require.NoError(t, be.PostEvent(runeEvent('q')))

	require.NoError(t, waitRun(t, done))
	assert.Equal(t, 2, a.Editor().Cursor().Line)
	assert.True(t, be.closed, "backend shut down")
}

func TestApplication_RunContextCancel(t *testing.T) {
	a, err := New(Options{})
	require.NoError(t, err)
	a.SetBackend(newFakeBackend(40, 10))

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, a)

	require.Eventually(t, a.Loop().IsRunning, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, a.Run(ctx), ErrAlreadyRunning)

	cancel()
	assert.NoError(t, waitRun(t, done))
}

func TestApplication_RunSimulationScreen(t *testing.T) {
	a, err := New(Options{File: writeFile(t, "doc.txt", "long line here\nab\nlong line here")})
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("UTF-8")
	a.SetScreen(screen)

	done := runAsync(context.Background(), a)
	require.Eventually(t, a.Loop().IsRunning, 2*time.Second, 5*time.Millisecond)

	// Keys are posted on the loop after the initial draw, so the screen
	// is initialised by then.
	posted := make(chan error, 1)
	require.NoError(t, a.Loop().Post(func() {
		var err error
		for _, r := range "$jj" {
			if err = a.backend.PostEvent(runeEvent(r)); err != nil {
				break
			}
		}
		if err == nil {
			err = a.backend.PostEvent(runeEvent('q'))
		}
		posted <- err
	}))
	require.NoError(t, <-posted)

	require.NoError(t, waitRun(t, done))
	assert.Equal(t, buffer.Point{Line: 2, Column: 14}, a.Editor().Cursor())
}

func TestApplication_WatchConfig(t *testing.T) {
	path := writeFile(t, "config.toml", "[editor]\ntab_width = 4\n")

	a, err := New(Options{ConfigPath: path, WatchConfig: true})
	require.NoError(t, err)
	a.SetBackend(newFakeBackend(40, 10))

	reloaded := make(chan int, 4)
	_, err = a.Bus().Subscribe(events.TopicConfigReloaded, event.AsHandler(
		func(context.Context, event.Event[events.ConfigReloaded]) error {
			reloaded <- a.Config().Editor.TabWidth
			return nil
		}))
	require.NoError(t, err)

	done := runAsync(context.Background(), a)
	require.Eventually(t, a.Loop().IsRunning, 2*time.Second, 5*time.Millisecond)
	// Let the watcher start before writing.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("[editor]\ntab_width = 2\n"), 0o644))

	select {
	case tw := <-reloaded:
		assert.Equal(t, 2, tw)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	a.Shutdown()
	require.NoError(t, waitRun(t, done))
}
