package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/dshills/vnav/internal/renderer/backend"
)

// Action is a named editor command run on the loop goroutine.
type Action func(ctx context.Context, app *Application) error

// Binding identifies a key press. Rune is only meaningful for KeyRune.
type Binding struct {
	Key  backend.Key
	Rune rune
}

// KeyBinding returns the binding for a special key.
func KeyBinding(k backend.Key) Binding {
	return Binding{Key: k}
}

// RuneBinding returns the binding for a printable key.
func RuneBinding(r rune) Binding {
	return Binding{Key: backend.KeyRune, Rune: r}
}

// KeyMap maps key presses to actions.
type KeyMap struct {
	bindings map[Binding]string
	actions  map[string]Action
}

// Action names.
const (
	ActionUp            = "cursor.up"
	ActionDown          = "cursor.down"
	ActionLeft          = "cursor.left"
	ActionRight         = "cursor.right"
	ActionPageUp        = "cursor.page_up"
	ActionPageDown      = "cursor.page_down"
	ActionLineStart     = "cursor.line_start"
	ActionLineEnd       = "cursor.line_end"
	ActionDocumentStart = "cursor.document_start"
	ActionDocumentEnd   = "cursor.document_end"
	ActionToggleWrap    = "view.toggle_wrap"
	ActionRedraw        = "view.redraw"
	ActionQuit          = "app.quit"
)

func builtinActions() map[string]Action {
	return map[string]Action{
		ActionUp: func(ctx context.Context, app *Application) error {
			return app.editor.MoveUp(ctx, 1)
		},
		ActionDown: func(ctx context.Context, app *Application) error {
			return app.editor.MoveDown(ctx, 1)
		},
		ActionLeft: func(ctx context.Context, app *Application) error {
			return app.editor.MoveLeft(ctx, 1)
		},
		ActionRight: func(ctx context.Context, app *Application) error {
			return app.editor.MoveRight(ctx, 1)
		},
		ActionPageUp: func(ctx context.Context, app *Application) error {
			return app.editor.PageUp(ctx)
		},
		ActionPageDown: func(ctx context.Context, app *Application) error {
			return app.editor.PageDown(ctx)
		},
		ActionLineStart: func(ctx context.Context, app *Application) error {
			return app.editor.LineStart(ctx)
		},
		ActionLineEnd: func(ctx context.Context, app *Application) error {
			return app.editor.LineEnd(ctx)
		},
		ActionDocumentStart: func(ctx context.Context, app *Application) error {
			return app.editor.DocumentStart(ctx)
		},
		ActionDocumentEnd: func(ctx context.Context, app *Application) error {
			return app.editor.DocumentEnd(ctx)
		},
		ActionToggleWrap: func(_ context.Context, app *Application) error {
			app.cfg.Editor.SoftWrap = !app.cfg.Editor.SoftWrap
			app.applyLayout()
			return nil
		},
		ActionRedraw: func(_ context.Context, app *Application) error {
			app.fullRedraw = true
			return nil
		},
		ActionQuit: func(context.Context, *Application) error {
			return ErrQuit
		},
	}
}

// DefaultKeyMap returns arrow-key and vi-style bindings.
func DefaultKeyMap() *KeyMap {
	km := &KeyMap{
		bindings: make(map[Binding]string),
		actions:  builtinActions(),
	}

	defaults := map[Binding]string{
		KeyBinding(backend.KeyUp):       ActionUp,
		RuneBinding('k'):                ActionUp,
		KeyBinding(backend.KeyDown):     ActionDown,
		RuneBinding('j'):                ActionDown,
		KeyBinding(backend.KeyLeft):     ActionLeft,
		RuneBinding('h'):                ActionLeft,
		KeyBinding(backend.KeyRight):    ActionRight,
		RuneBinding('l'):                ActionRight,
		KeyBinding(backend.KeyPageUp):   ActionPageUp,
		KeyBinding(backend.KeyCtrlB):    ActionPageUp,
		KeyBinding(backend.KeyCtrlU):    ActionPageUp,
		KeyBinding(backend.KeyPageDown): ActionPageDown,
		KeyBinding(backend.KeyCtrlF):    ActionPageDown,
		KeyBinding(backend.KeyCtrlD):    ActionPageDown,
		KeyBinding(backend.KeyHome):     ActionLineStart,
		RuneBinding('0'):                ActionLineStart,
		KeyBinding(backend.KeyEnd):      ActionLineEnd,
		RuneBinding('$'):                ActionLineEnd,
		RuneBinding('g'):                ActionDocumentStart,
		RuneBinding('G'):                ActionDocumentEnd,
		RuneBinding('w'):                ActionToggleWrap,
		KeyBinding(backend.KeyCtrlL):    ActionRedraw,
		RuneBinding('q'):                ActionQuit,
		KeyBinding(backend.KeyEscape):   ActionQuit,
		KeyBinding(backend.KeyCtrlC):    ActionQuit,
	}
	for b, name := range defaults {
		km.bindings[b] = name
	}
	return km
}

// Bind maps b to the named action, replacing any earlier binding.
func (k *KeyMap) Bind(b Binding, action string) error {
	if _, ok := k.actions[action]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	k.bindings[b] = action
	return nil
}

// Unbind removes the binding for b.
func (k *KeyMap) Unbind(b Binding) {
	delete(k.bindings, b)
}

// Lookup returns the action bound to a key event.
func (k *KeyMap) Lookup(ev backend.Event) (string, Action, bool) {
	b := Binding{Key: ev.Key}
	if ev.Key == backend.KeyRune {
		b.Rune = ev.Rune
	}
	name, ok := k.bindings[b]
	if !ok {
		return "", nil, false
	}
	return name, k.actions[name], true
}

// Actions returns the names of all known actions, sorted.
func (k *KeyMap) Actions() []string {
	names := make([]string, 0, len(k.actions))
	for name := range k.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
