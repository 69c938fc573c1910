package config

import (
	"context"
	"fmt"

	"github.com/dshills/vnav/internal/config/watcher"
)

// ReloadFunc receives the result of a reload. Exactly one of cfg and err
// is nil.
type ReloadFunc func(cfg *Config, err error)

// Reloader reloads a configuration file whenever it changes on disk.
type Reloader struct {
	path   string
	loader *Loader
	w      *watcher.Watcher
}

// NewReloader watches path and calls fn after each change. A removed file
// reloads to the defaults plus the environment.
func NewReloader(path string, l *Loader, fn ReloadFunc, opts ...watcher.Option) (*Reloader, error) {
	if l == nil {
		l = NewLoader()
	}

	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching config %s: %w", path, err)
	}

	r := &Reloader{path: path, loader: l, w: w}
	w.OnChange(func(watcher.Event) {
		fn(r.loader.Load(r.path))
	})
	return r, nil
}

// Path returns the watched file.
func (r *Reloader) Path() string {
	return r.path
}

// Run delivers reloads until ctx is done or Close is called.
func (r *Reloader) Run(ctx context.Context) error {
	return r.w.Run(ctx)
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.w.Close()
}
