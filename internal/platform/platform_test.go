package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueDrain(t *testing.T) {
	var q Queue
	assert.Empty(t, q.Drain())

	q.Push(KeyEvent{Key: 256, Action: KeyPress})
	q.Push(ResizeEvent{Width: 10, Height: 20})
	q.Push(CloseEvent{})

	got := q.Drain()
	assert.Equal(t, []Event{
		KeyEvent{Key: 256, Action: KeyPress},
		ResizeEvent{Width: 10, Height: 20},
		CloseEvent{},
	}, got)
	assert.Empty(t, q.Drain(), "drain empties the queue")
}

func TestKeyActionString(t *testing.T) {
	assert.Equal(t, "press", KeyPress.String())
	assert.Equal(t, "release", KeyRelease.String())
	assert.Equal(t, "repeat", KeyRepeat.String())
}
