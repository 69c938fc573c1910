package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/vnav/internal/config"
	"github.com/dshills/vnav/internal/event"
	"github.com/dshills/vnav/internal/event/events"
	"github.com/dshills/vnav/internal/loop"
	"github.com/dshills/vnav/internal/renderer/backend"
)

const (
	eventSource = "app"
	wheelRows   = 3
)

func (a *Application) handleEvent(ctx context.Context, ev backend.Event) {
	switch ev.Type {
	case backend.EventResize:
		a.handleResize(ctx, ev.Width, ev.Height)
	case backend.EventKey:
		a.handleKey(ctx, ev)
	case backend.EventMouse:
		a.handleMouse(ctx, ev)
	default:
		return
	}
	a.requestDraw()
}

func (a *Application) handleResize(ctx context.Context, width, height int) {
	if a.renderer == nil {
		return
	}
	a.renderer.Resize(width, height)
	a.applyLayout()

	payload := events.ViewportResized{
		Width:  a.renderer.TextWidth(a.editor),
		Height: a.renderer.TextHeight(),
	}
	a.publish(ctx, event.NewEvent(events.TopicViewportResized, payload, eventSource))
}

func (a *Application) handleKey(ctx context.Context, ev backend.Event) {
	name, action, ok := a.keys.Lookup(ev)
	if !ok {
		return
	}
	a.message = ""

	err := action(ctx, a)
	switch {
	case err == nil:
	case errors.Is(err, ErrQuit):
		a.logger.Info("quit requested", "action", name)
		a.loop.Stop()
	default:
		a.logger.Error("action failed", "action", name, "error", err)
		a.message = err.Error()
	}
}

func (a *Application) handleMouse(ctx context.Context, ev backend.Event) {
	if a.renderer == nil {
		return
	}

	var err error
	switch ev.MouseButton {
	case backend.MouseLeft:
		line, row, x, ok := a.renderer.HitTest(a.editor, ev.MouseX, ev.MouseY)
		if !ok {
			return
		}
		err = a.editor.ClickAt(ctx, line, row, x)
	case backend.MouseWheelUp:
		err = a.editor.MoveUp(ctx, wheelRows)
	case backend.MouseWheelDown:
		err = a.editor.MoveDown(ctx, wheelRows)
	default:
		return
	}
	if err != nil {
		a.logger.Error("mouse action failed", "button", ev.MouseButton, "error", err)
		a.message = err.Error()
	}
}

// applyLayout pushes the window size and wrap setting into the editor.
func (a *Application) applyLayout() {
	if a.renderer == nil {
		return
	}
	wrap := 0
	if a.cfg.Editor.SoftWrap {
		wrap = a.renderer.TextWidth(a.editor)
	}
	a.editor.SetWrapWidth(wrap)
	a.editor.SetPageSize(a.renderer.TextHeight() - 1)
}

// requestDraw schedules one draw for the next turn, however many events
// ask for it in this one.
func (a *Application) requestDraw() {
	if a.drawPending || a.renderer == nil {
		return
	}
	a.drawPending = true
	a.loop.Defer(func() {
		a.drawPending = false
		a.draw()
	})
}

func (a *Application) draw() {
	a.renderer.Render(a.editor, a.statusText())
	if a.fullRedraw {
		a.fullRedraw = false
		a.backend.Sync()
	}
}

// statusText describes the cursor: position, goal column and lock.
func (a *Application) statusText() string {
	var sb strings.Builder

	name := "[scratch]"
	if path := a.editor.Buffer().Path(); path != "" {
		name = filepath.Base(path)
	}
	sb.WriteString(name)

	cur := a.editor.Cursor()
	fmt.Fprintf(&sb, "  Ln %d, Col %d", cur.Line+1, cur.Column+1)

	if x, ok := a.editor.GoalX(); ok {
		fmt.Fprintf(&sb, "  x=%d", x)
	} else {
		sb.WriteString("  x=-")
	}
	if a.nav.IsLocked() {
		sb.WriteString("  lock")
	}
	if a.cfg.Editor.SoftWrap {
		sb.WriteString("  wrap")
	}
	if a.message != "" {
		sb.WriteString("  ")
		sb.WriteString(a.message)
	}
	return sb.String()
}

func (a *Application) publish(ctx context.Context, ev any) {
	if err := a.bus.Publish(ctx, ev); err != nil {
		a.logger.Warn("publish failed", "topic", topicName(ev), "error", err)
	}
}

// onConfigReload runs on the watcher goroutine.
func (a *Application) onConfigReload(cfg *config.Config, err error) {
	postErr := a.loop.Post(func() {
		a.applyReload(context.Background(), cfg, err)
		a.requestDraw()
	})
	if postErr != nil && !errors.Is(postErr, loop.ErrLoopStopped) {
		a.logger.Warn("dropping config reload", "error", postErr)
	}
}

func (a *Application) applyReload(ctx context.Context, cfg *config.Config, err error) {
	path := a.opts.ConfigPath
	if err != nil {
		a.logger.Error("config reload failed", "path", path, "error", err)
		a.message = "config: " + err.Error()
		a.publish(ctx, event.NewEvent(events.TopicConfigReloadFailed,
			events.ConfigReloadFailed{Path: path, Error: err.Error()}, eventSource))
		return
	}

	a.applyConfig(cfg)
	a.message = "config reloaded"
	a.logger.Info("config reloaded", "path", path)
	a.publish(ctx, event.NewEvent(events.TopicConfigReloaded,
		events.ConfigReloaded{Path: path}, eventSource))
}

// applyConfig replaces the settings in effect.
func (a *Application) applyConfig(cfg *config.Config) {
	a.cfg = cfg
	a.editor.SetMeasurer(measurerFor(cfg))
	if a.renderer != nil {
		opts := a.renderer.Options()
		opts.ScrollOff = cfg.Editor.ScrollOff
		a.renderer.SetOptions(opts)
	}
	a.applyLayout()
	if a.levels != nil {
		a.levels.SetLevel(cfg.Logging.Level)
	}
}
