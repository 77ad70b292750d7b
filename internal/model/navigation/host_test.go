package navigation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScreen struct {
	name   string
	handle *Handle
	opens  int
	ctxs   []context.Context
}

func (s *fakeScreen) Open(ctx context.Context) {
	s.opens++
	s.ctxs = append(s.ctxs, ctx)
}

func (s *fakeScreen) lastCtx() context.Context {
	return s.ctxs[len(s.ctxs)-1]
}

func factory(name string, out **fakeScreen) Factory {
	return func(h *Handle) Screen {
		s := &fakeScreen{name: name, handle: h}
		*out = s
		return s
	}
}

func Test_Push_ShouldBackgroundPreviousScreen(t *testing.T) {
	host := NewHost(context.Background())

	var detail, edit *fakeScreen
	host.push(factory("detail", &detail))
	require.Equal(t, 1, detail.opens)

	detail.handle.Push(factory("edit", &edit))

	assert.Error(t, detail.lastCtx().Err(), "background screen must be cancelled")
	assert.NoError(t, edit.lastCtx().Err())
	assert.Same(t, edit, host.Top())
	assert.Equal(t, 2, host.Depth())
}

func Test_Back_ShouldReopenScreenBelow(t *testing.T) {
	host := NewHost(context.Background())

	var detail, edit *fakeScreen
	host.push(factory("detail", &detail))
	detail.handle.Push(factory("edit", &edit))

	edit.handle.Back()

	assert.Error(t, edit.lastCtx().Err())
	assert.Equal(t, 2, detail.opens)
	assert.NoError(t, detail.lastCtx().Err())
	assert.Same(t, detail, host.Top())
}

func Test_Back_FromStaleHandleShouldBeIgnored(t *testing.T) {
	host := NewHost(context.Background())

	var detail, edit *fakeScreen
	host.push(factory("detail", &detail))
	detail.handle.Push(factory("edit", &edit))

	assert.False(t, detail.handle.Back())
	detail.handle.Push(factory("other", new(*fakeScreen)))

	assert.Same(t, edit, host.Top())
	assert.Equal(t, 2, host.Depth())
	assert.False(t, detail.handle.active())
	assert.True(t, edit.handle.active())
}

func Test_Back_LastScreenShouldLeaveEmptyStack(t *testing.T) {
	host := NewHost(context.Background())

	var detail *fakeScreen
	host.push(factory("detail", &detail))
	assert.True(t, detail.handle.Back())
	assert.False(t, detail.handle.Back())

	assert.Nil(t, host.Top())
	assert.Equal(t, 0, host.Depth())
	assert.Error(t, detail.lastCtx().Err())
}

func Test_Reset_ShouldCloseEverything(t *testing.T) {
	host := NewHost(context.Background())

	var a, b, c *fakeScreen
	host.push(factory("a", &a))
	host.push(factory("b", &b))
	host.Reset(factory("c", &c))

	assert.Error(t, a.lastCtx().Err())
	assert.Error(t, b.lastCtx().Err())
	assert.Equal(t, 1, host.Depth())
	assert.Same(t, c, host.Top())

	host.Close()
	assert.Error(t, c.lastCtx().Err())
	assert.Equal(t, 0, host.Depth())
}
