package seat

import (
	"testing"

	"github.com/bnema/waycore/internal/registry"
	"github.com/bnema/waycore/internal/xkb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xkbTestRMLVO() xkb.RMLVO {
	return xkb.RMLVO{Layout: "us"}
}

func newTestKeyboard(t *testing.T, focusHook func(Surface)) *KeyboardState {
	t.Helper()
	kb, err := NewKeyboardState(xkbTestRMLVO(), 25, 600, focusHook)
	require.NoError(t, err)
	return kb
}

func TestNewKbdSendsKeymapAndRepeatInfo(t *testing.T) {
	kb := newTestKeyboard(t, nil)
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	kbd := newFakeKbd(client)

	kb.NewKbd(kbd)

	assert.NotZero(t, kbd.keymapSize)
	assert.Len(t, kbd.repeatUpdates, 1)
	assert.Equal(t, int32(25), kbd.repeatUpdates[0].rate)
	assert.Equal(t, int32(600), kbd.repeatUpdates[0].delay)
}

func TestNewKbdOmitsRepeatInfoBelowVersion4(t *testing.T) {
	kb := newTestKeyboard(t, nil)
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	kbd := newFakeKbd(client)
	kbd.version = 3

	kb.NewKbd(kbd)

	assert.Empty(t, kbd.repeatUpdates)
}

func TestSetFocusSendsEnterAndLeave(t *testing.T) {
	kb := newTestKeyboard(t, nil)
	reg := registry.New()
	clientA := reg.NewObject(0, 1).ID()
	clientB := reg.NewObject(0, 1).ID()
	surfaceA := newFakeSurface(reg, clientA)
	surfaceB := newFakeSurface(reg, clientB)
	kbdA := newFakeKbd(clientA)
	kbdB := newFakeKbd(clientB)
	kb.NewKbd(kbdA)
	kb.NewKbd(kbdB)

	kb.SetFocus(surfaceA, 1)
	assert.True(t, kbdA.entered)
	assert.False(t, kbdB.entered)

	kb.SetFocus(surfaceB, 2)
	assert.True(t, kbdA.left)
	assert.True(t, kbdB.entered)
}

func TestSetFocusIsNoopForSameSurface(t *testing.T) {
	var hookCalls int
	kb := newTestKeyboard(t, func(Surface) { hookCalls++ })
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	surface := newFakeSurface(reg, client)

	kb.SetFocus(surface, 1)
	kb.SetFocus(surface, 2)

	assert.Equal(t, 1, hookCalls)
}

func TestInputDeliversKeyAndModifiersToFocusedClient(t *testing.T) {
	kb := newTestKeyboard(t, nil)
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	surface := newFakeSurface(reg, client)
	kbd := newFakeKbd(client)
	kb.NewKbd(kbd)
	kb.SetFocus(surface, 1)

	_, intercepted := kb.Input(29 /* KEY_LEFTCTRL raw */, KeyPressed, 2, 1000, nil)
	assert.False(t, intercepted)
	assert.Len(t, kbd.keys, 1)
	assert.Equal(t, KeyPressed, kbd.keys[0].state)
	// one modifiers event from the focus enter, one from the ctrl press.
	assert.Len(t, kbd.mods, 2)
	assert.NotZero(t, kbd.mods[1].Depressed)
}

func TestInputFilterCanIntercept(t *testing.T) {
	kb := newTestKeyboard(t, nil)
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	surface := newFakeSurface(reg, client)
	kbd := newFakeKbd(client)
	kb.NewKbd(kbd)
	kb.SetFocus(surface, 1)

	value, intercepted := kb.Input(1, KeyPressed, 2, 1000, func(ModifiersState, KeysymHandle) FilterResult {
		return Intercept("compositor-shortcut")
	})
	assert.True(t, intercepted)
	assert.Equal(t, "compositor-shortcut", value)
	assert.Empty(t, kbd.keys, "an intercepted key must never reach a client")
}

func TestHasFocus(t *testing.T) {
	kb := newTestKeyboard(t, nil)
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	other := reg.NewObject(0, 1).ID()
	surface := newFakeSurface(reg, client)

	assert.False(t, kb.HasFocus(client))
	kb.SetFocus(surface, 1)
	assert.True(t, kb.HasFocus(client))
	assert.False(t, kb.HasFocus(other))
}

func TestChangeRepeatInfoNotifiesKnownKeyboards(t *testing.T) {
	kb := newTestKeyboard(t, nil)
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	kbd := newFakeKbd(client)
	kb.NewKbd(kbd)

	kb.ChangeRepeatInfo(40, 300)

	last := kbd.repeatUpdates[len(kbd.repeatUpdates)-1]
	assert.Equal(t, int32(40), last.rate)
	assert.Equal(t, int32(300), last.delay)
}
