package ui

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWidget_SetActive_ReportsOnlyChanges(t *testing.T) {
	var changes int
	w := NewWidget("panel", func(*Widget) { changes++ })

	w.SetActive(true)
	w.SetActive(true)
	w.SetActive(false)
	w.SetActive(false)

	assert.False(t, w.IsActive())
	assert.Equal(t, 2, changes)
}

func TestWidget_SetText(t *testing.T) {
	var changes int
	w := NewWidget("label", func(*Widget) { changes++ })

	w.SetText("Destination: Library")
	w.SetText("Destination: Library")

	assert.Equal(t, "Destination: Library", w.Text())
	assert.Equal(t, 1, changes)
}

func TestWidget_NilChangeFunc(t *testing.T) {
	w := NewWidget("label", nil)

	assert.NotPanics(t, func() {
		w.SetText("x")
		w.SetActive(true)
	})
}

func TestLogChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	w := NewWidget("room", LogChanges(logger))
	w.SetText("Room: Reading Hall")

	assert.Contains(t, buf.String(), `"widget":"room"`)
	assert.Contains(t, buf.String(), `"text":"Room: Reading Hall"`)
}
