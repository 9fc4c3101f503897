package widget

import (
	"testing"

	"github.com/ppiankov/policywatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(surfaces map[string]*recordingSurface) *Manager {
	a := newFakeAnalyzer()
	return NewManager(func(id string) *Controller {
		s := &recordingSurface{}
		surfaces[id] = s
		return newTestController(a, s, &manualTimer{})
	})
}

func TestManager_CreateIsIdempotent(t *testing.T) {
	surfaces := map[string]*recordingSurface{}
	m := newTestManager(surfaces)

	first, created, err := m.Create("tab-1", facebookPolicy())
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := m.Create("tab-1", facebookPolicy())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, first, second)
	assert.Len(t, surfaces["tab-1"].states(), 1, "second create must not re-render")
	assert.Equal(t, 1, m.Len())
}

func TestManager_CreateAfterCloseStartsFresh(t *testing.T) {
	surfaces := map[string]*recordingSurface{}
	m := newTestManager(surfaces)

	c, _, err := m.Create("tab-1", facebookPolicy())
	require.NoError(t, err)
	require.NoError(t, c.Analyze(t.Context()))

	m.Close("tab-1")
	assert.Equal(t, model.StateIdle, c.State())
	assert.Equal(t, 1, surfaces["tab-1"].removals())
	_, ok := m.Get("tab-1")
	assert.False(t, ok)

	fresh, created, err := m.Create("tab-1", facebookPolicy())
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotSame(t, c, fresh)
	assert.Equal(t, model.StateDetecting, fresh.State())
}

func TestManager_ReopensWidgetClosedByItself(t *testing.T) {
	m := newTestManager(map[string]*recordingSurface{})

	c, _, err := m.Create("popup", facebookPolicy())
	require.NoError(t, err)
	c.Close()

	again, created, err := m.Create("popup", facebookPolicy())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Same(t, c, again)
	assert.Equal(t, model.StateDetecting, again.State())
}

func TestManager_ContextsAreIndependent(t *testing.T) {
	m := newTestManager(map[string]*recordingSurface{})

	a, _, err := m.Create("tab-1", facebookPolicy())
	require.NoError(t, err)
	b, _, err := m.Create("tab-2", facebookPolicy())
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	m.CloseAll()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, model.StateIdle, a.State())
	assert.Equal(t, model.StateIdle, b.State())
}
