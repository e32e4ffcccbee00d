// Package ui holds the retained UI state the receiver shows on top of the camera view.
// Rendering is done elsewhere; widgets only record state and report changes.
package ui

import (
	"sync"

	"github.com/rs/zerolog"
)

// Panel is a surface that can be shown or hidden.
type Panel interface {
	SetActive(active bool)
	IsActive() bool
}

// Label is a text element.
type Label interface {
	SetText(text string)
	Text() string
}

// ChangeFunc is invoked after a widget's state actually changed.
type ChangeFunc func(w *Widget)

// Widget is an in-memory Panel and Label.
type Widget struct {
	name     string
	onChange ChangeFunc

	mu     sync.RWMutex
	text   string
	active bool
}

// NewWidget creates a hidden, empty widget. onChange may be nil.
func NewWidget(name string, onChange ChangeFunc) *Widget {
	return &Widget{name: name, onChange: onChange}
}

// Name returns the widget name.
func (w *Widget) Name() string { return w.name }

// SetActive shows or hides the widget. Setting the current state again is a no-op.
func (w *Widget) SetActive(active bool) {
	w.mu.Lock()
	if w.active == active {
		w.mu.Unlock()
		return
	}
	w.active = active
	w.mu.Unlock()

	w.changed()
}

// IsActive reports whether the widget is shown.
func (w *Widget) IsActive() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

// SetText replaces the widget text.
func (w *Widget) SetText(text string) {
	w.mu.Lock()
	if w.text == text {
		w.mu.Unlock()
		return
	}
	w.text = text
	w.mu.Unlock()

	w.changed()
}

// Text returns the widget text.
func (w *Widget) Text() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.text
}

func (w *Widget) changed() {
	if w.onChange != nil {
		w.onChange(w)
	}
}

// LogChanges returns a ChangeFunc that writes every widget change to logger.
func LogChanges(logger zerolog.Logger) ChangeFunc {
	return func(w *Widget) {
		logger.Info().
			Str("widget", w.Name()).
			Bool("active", w.IsActive()).
			Str("text", w.Text()).
			Msg("UI updated")
	}
}
