package model

import (
	"fmt"
	"sync"
)

// Canvas dimensions in cells. Cells outside this range are rejected.
const (
	CanvasWidth  = 192
	CanvasHeight = 108
)

// CanvasSnapshot maps "x,y" coordinate keys to palette colors. Unset cells
// render as the client's background color and are not stored.
type CanvasSnapshot map[string]string

// CoordKey serializes a coordinate pair the way it is stored and sent over
// the wire.
func CoordKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// InBounds reports whether (x, y) addresses a cell on the canvas.
func InBounds(x, y int) bool {
	return x >= 0 && x < CanvasWidth && y >= 0 && y < CanvasHeight
}

// Canvas is the single source of visual truth: a sparse mapping from
// coordinate to the most recently accepted color. Mutation is last-writer-wins
// with no versioning; concurrent callers are serialized by the mutex.
type Canvas struct {
	mu     sync.Mutex
	pixels CanvasSnapshot
}

func NewCanvas() *Canvas {
	return &Canvas{
		pixels: make(CanvasSnapshot),
	}
}

// Set unconditionally overwrites the stored color at (x, y).
func (c *Canvas) Set(x, y int, color string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pixels[CoordKey(x, y)] = color
}

// Snapshot returns a copy of the full current mapping.
func (c *Canvas) Snapshot() CanvasSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(CanvasSnapshot, len(c.pixels))
	for k, v := range c.pixels {
		out[k] = v
	}
	return out
}

// Replace substitutes the entire mapping. Used only during startup
// restoration from a persisted snapshot.
func (c *Canvas) Replace(snapshot CanvasSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if snapshot == nil {
		snapshot = make(CanvasSnapshot)
	}
	c.pixels = snapshot
}

// Size returns the number of set cells.
func (c *Canvas) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pixels)
}
