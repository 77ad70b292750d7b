// Package navigation keeps a per-user back stack of screens and scopes every
// screen's background work to the time it spends on top of the stack.
package navigation

import (
	"context"
	"sync"
)

// Screen starts its work in Open and must stop it once ctx is done.
// Open runs again, with a new context, each time the screen returns to the top.
// Open is called with the host locked: navigation must happen from other goroutines.
type Screen interface {
	Open(ctx context.Context)
}

// Factory builds a screen bound to its own handle.
type Factory func(h *Handle) Screen

type entry struct {
	screen Screen
	cancel context.CancelFunc
}

type Host struct {
	base context.Context

	mu    sync.Mutex
	stack []*entry
}

func NewHost(ctx context.Context) *Host {
	return &Host{base: ctx}
}

// Handle is how a screen navigates. Calls from a screen that is no longer on
// top are ignored, so late background results cannot pop someone else's screen.
type Handle struct {
	host  *Host
	entry *entry
}

// Back reports whether the screen was actually popped.
func (h *Handle) Back() bool {
	h.host.mu.Lock()
	defer h.host.mu.Unlock()

	if !h.host.isTop(h.entry) {
		return false
	}
	h.host.popLocked()
	return true
}

func (h *Handle) Push(f Factory) {
	h.host.mu.Lock()
	defer h.host.mu.Unlock()

	if !h.host.isTop(h.entry) {
		return
	}
	h.host.pushLocked(f)
}

func (h *Handle) active() bool {
	h.host.mu.Lock()
	defer h.host.mu.Unlock()
	return h.host.isTop(h.entry)
}

// push backgrounds the current screen and opens a new one on top.
func (h *Host) push(f Factory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushLocked(f)
}

// Reset closes every screen and opens f as the only one.
func (h *Host) Reset(f Factory) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clearLocked()
	h.pushLocked(f)
}

// Back pops the top screen regardless of who asks.
func (h *Host) Back() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.popLocked()
}

func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clearLocked()
}

func (h *Host) Top() Screen {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.stack) == 0 {
		return nil
	}
	return h.stack[len(h.stack)-1].screen
}

func (h *Host) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}

func (h *Host) isTop(e *entry) bool {
	return len(h.stack) > 0 && h.stack[len(h.stack)-1] == e
}

func (h *Host) pushLocked(f Factory) {
	if n := len(h.stack); n > 0 {
		h.stack[n-1].cancel()
	}

	e := &entry{}
	e.screen = f(&Handle{host: h, entry: e})
	h.stack = append(h.stack, e)
	h.openLocked(e)
}

func (h *Host) popLocked() {
	n := len(h.stack)
	if n == 0 {
		return
	}
	h.stack[n-1].cancel()
	h.stack[n-1] = nil
	h.stack = h.stack[:n-1]

	if n > 1 {
		h.openLocked(h.stack[n-2])
	}
}

func (h *Host) clearLocked() {
	for _, e := range h.stack {
		e.cancel()
	}
	h.stack = nil
}

func (h *Host) openLocked(e *entry) {
	ctx, cancel := context.WithCancel(h.base)
	e.cancel = cancel
	e.screen.Open(ctx)
}
