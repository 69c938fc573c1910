package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/vnav/internal/config"
	"github.com/dshills/vnav/internal/config/watcher"
	"github.com/dshills/vnav/internal/editor"
	"github.com/dshills/vnav/internal/engine/buffer"
	"github.com/dshills/vnav/internal/engine/layout"
	"github.com/dshills/vnav/internal/event"
	"github.com/dshills/vnav/internal/event/events"
	"github.com/dshills/vnav/internal/loop"
	"github.com/dshills/vnav/internal/navline"
	"github.com/dshills/vnav/internal/renderer"
	"github.com/dshills/vnav/internal/renderer/backend"
)

// Options configures an Application.
type Options struct {
	// Config holds the starting settings. Nil means config.Default().
	Config *config.Config

	// ConfigPath is the file the settings came from. It is watched for
	// changes when WatchConfig is set.
	ConfigPath string

	// WatchConfig reloads ConfigPath whenever it changes on disk.
	WatchConfig bool

	// File is opened for viewing. Empty starts with a scratch buffer.
	File string

	// Logger receives diagnostics. Its level follows reloaded configs.
	Logger *Logger

	// Debug logs every event published on the bus.
	Debug bool

	// KeyMap overrides the default bindings.
	KeyMap *KeyMap
}

// Application wires the event loop, the bus, the editor and the terminal.
// Everything except the input pump runs on the loop goroutine.
type Application struct {
	opts Options
	cfg  *config.Config

	logger *slog.Logger
	levels *Logger

	loop   *loop.Loop
	bus    event.Bus
	nav    *navline.State
	editor *editor.Editor
	keys   *KeyMap

	backend  backend.Backend
	renderer *renderer.Renderer
	reloader *config.Reloader
	tap      event.Subscription

	running atomic.Bool

	// Loop-goroutine state.
	drawPending bool
	fullRedraw  bool
	message     string
}

// New builds an Application. A backend must be attached with SetBackend or
// SetScreen before Run.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewComponentError("config", "validate", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Logger != nil {
		logger = opts.Logger.Logger
	}

	a := &Application{
		opts:   opts,
		cfg:    cfg,
		logger: logger,
		levels: opts.Logger,
		keys:   opts.KeyMap,
	}
	if a.keys == nil {
		a.keys = DefaultKeyMap()
	}

	a.loop = loop.New(loop.WithLogger(logger.With("component", "loop")))
	a.bus = event.NewBus(event.WithPanicHandler(func(ev any, _ event.Subscription, recovered any) {
		a.logger.Error("event handler panicked", "topic", topicName(ev), "panic", recovered)
	}))

	nav, err := navline.New(a.loop,
		navline.WithSelectionSignal(event.NewSignal(a.bus, events.TopicSelectionChanged)),
		navline.WithLogger(logger.With("component", "navline")),
	)
	if err != nil {
		return nil, NewComponentError("navline", "init", err)
	}
	a.nav = nav

	buf := buffer.New("")
	if opts.File != "" {
		if buf, err = buffer.Load(opts.File); err != nil {
			nav.Close()
			return nil, NewComponentError("buffer", "load", err)
		}
	}

	ed, err := editor.New(buf, nav, a.bus, measurerFor(cfg),
		editor.WithLogger(logger.With("component", "editor")),
	)
	if err != nil {
		nav.Close()
		return nil, NewComponentError("editor", "init", err)
	}
	a.editor = ed

	if opts.Debug {
		if err := a.subscribeDebugTap(); err != nil {
			nav.Close()
			return nil, NewComponentError("event", "subscribe", err)
		}
	}

	if opts.WatchConfig && opts.ConfigPath != "" {
		r, err := config.NewReloader(opts.ConfigPath, config.NewLoader(), a.onConfigReload,
			watcher.WithLogger(logger.With("component", "config")),
		)
		if err != nil {
			a.close()
			return nil, NewComponentError("config", "watch", err)
		}
		a.reloader = r
	}

	logger.Info("application created",
		"file", opts.File,
		"lines", buf.LineCount(),
		"config", opts.ConfigPath,
		"watch", a.reloader != nil,
	)
	return a, nil
}

// SetBackend attaches the terminal backend and creates the renderer for it.
func (a *Application) SetBackend(be backend.Backend) {
	a.backend = be
	a.renderer = renderer.New(be, renderer.Options{
		ShowLineNumbers: true,
		ScrollOff:       a.cfg.Editor.ScrollOff,
	})
}

// SetScreen attaches a tcell screen, such as a simulation screen in tests.
func (a *Application) SetScreen(screen tcell.Screen) {
	a.SetBackend(backend.NewTerminalWithScreen(screen))
}

// Editor returns the navigation surface.
func (a *Application) Editor() *editor.Editor {
	return a.editor
}

// Bus returns the event bus.
func (a *Application) Bus() event.Bus {
	return a.bus
}

// Loop returns the event loop.
func (a *Application) Loop() *loop.Loop {
	return a.loop
}

// Config returns the settings in effect. Only read it on the loop goroutine.
func (a *Application) Config() *config.Config {
	return a.cfg
}

// Run drives the application until quit is requested or ctx is done.
// It returns nil on an ordinary quit.
func (a *Application) Run(ctx context.Context) error {
	if a.backend == nil {
		return ErrNoBackend
	}
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)
	defer a.close()

	if err := a.backend.Init(); err != nil {
		return NewComponentError("backend", "init", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	w, h := a.backend.Size()
	if err := a.loop.Post(func() {
		a.handleResize(gctx, w, h)
		a.requestDraw()
	}); err != nil {
		a.backend.Shutdown()
		return NewComponentError("loop", "post", err)
	}

	g.Go(func() error {
		defer cancel()
		err := a.loop.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		a.loop.Stop()
		a.backend.Shutdown()
		return nil
	})

	g.Go(func() error {
		return a.pumpInput(gctx)
	})

	if a.reloader != nil {
		g.Go(func() error {
			err := a.reloader.Run(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return NewComponentError("config", "watch", err)
			}
			return nil
		})
	}

	a.logger.Info("application running")
	err := g.Wait()
	a.logger.Info("application stopped", "error", err)
	return err
}

// Shutdown asks a running application to quit. Safe from any goroutine.
func (a *Application) Shutdown() {
	a.loop.Stop()
}

// pumpInput forwards terminal events to the loop until the backend closes.
func (a *Application) pumpInput(ctx context.Context) error {
	for {
		ev, ok := a.backend.PollEvent()
		if !ok || ctx.Err() != nil {
			return nil
		}
		err := a.loop.Post(func() { a.handleEvent(ctx, ev) })
		switch {
		case err == nil:
		case errors.Is(err, loop.ErrLoopStopped):
			return nil
		default:
			a.logger.Warn("dropping input event", "type", ev.Type, "error", err)
		}
	}
}

func (a *Application) close() {
	if a.reloader != nil {
		if err := a.reloader.Close(); err != nil {
			a.logger.Warn("closing config watcher", "error", err)
		}
	}
	if a.tap != nil {
		_ = a.bus.Unsubscribe(a.tap)
		a.tap = nil
	}
	a.nav.Close()
}

func measurerFor(cfg *config.Config) *layout.Measurer {
	return layout.NewMeasurer(cfg.Editor.TabWidth, cfg.Editor.AmbiguousWide)
}

func topicName(ev any) string {
	if tp, ok := ev.(event.TopicProvider); ok {
		return string(tp.EventTopic())
	}
	return fmt.Sprintf("%T", ev)
}
