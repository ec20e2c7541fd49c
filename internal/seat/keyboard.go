package seat

import (
	"encoding/binary"
	"fmt"

	"github.com/bnema/waycore/internal/logger"
	"github.com/bnema/waycore/internal/registry"
	"github.com/bnema/waycore/internal/xkb"
)

// XkbV1 is the wl_keyboard.keymap_format value for the text-v1
// serialization internal/xkb produces.
const XkbV1 uint32 = 1

// ModifiersState is a snapshot of which named modifiers are currently
// effective, as delivered to input filters.
type ModifiersState = xkb.ModifiersState

// KeysymHandle exposes the keysym lookups for one key event.
type KeysymHandle = xkb.KeysymHandle

// SerializedMods is the (depressed, latched, locked, layout) tuple
// sent in a wl_keyboard.modifiers event.
type SerializedMods struct {
	Depressed, Latched, Locked, Layout uint32
}

// FilterResult is returned by an input filter to say whether it
// consumed the key event (Intercept) or the event should continue to
// the grab stack as normal input.
type FilterResult struct {
	Intercept bool
	Value     any
}

// Forward lets a key event continue to the grab stack.
func Forward() FilterResult { return FilterResult{} }

// Intercept consumes a key event before it reaches any client, e.g.
// for a compositor-level shortcut.
func Intercept(value any) FilterResult { return FilterResult{Intercept: true, Value: value} }

// KeyboardResource is the wire resource for one client's bound
// wl_keyboard.
type KeyboardResource interface {
	ClientID() registry.ID
	Alive() bool
	Version() uint32
	Keymap(format uint32, fd int, size uint32)
	Enter(serial Serial, surface Surface, pressedKeys []byte)
	Leave(serial Serial, surface Surface)
	Key(serial Serial, time uint32, key uint32, state KeyState)
	Modifiers(serial Serial, depressed, latched, locked, layout uint32)
	RepeatInfo(rate, delay int32)
}

// KeyboardState is the per-seat keyboard engine: compiled keymap,
// modifier/pressed-key tracking, focus, and the grab stack (4.G) that
// arbitrates which handler sees input.
type KeyboardState struct {
	keymap *xkb.Keymap
	state  *xkb.State

	knownKbds []KeyboardResource
	focus     Surface
	// pendingFocus records the last surface requested via SetFocus,
	// restored by UnsetGrab(restoreFocus=true) once a grab releases.
	pendingFocus Surface

	pressedKeys []uint32
	mods        xkb.ModifiersState

	repeatRate, repeatDelay int32
	focusHook               func(Surface)

	grab grabSlot
}

// NewKeyboardState compiles rmlvo and returns a fresh engine. focusHook
// (if non-nil) is invoked after every successful focus change, letting
// the compositor follow keyboard focus for other purposes (e.g. the
// seat's data-device selection focus).
func NewKeyboardState(rmlvo xkb.RMLVO, repeatRate, repeatDelay int32, focusHook func(Surface)) (*KeyboardState, error) {
	km, err := xkb.Compile(rmlvo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKeymap, err)
	}
	return &KeyboardState{
		keymap:       km,
		state:        km.NewState(),
		repeatRate:   repeatRate,
		repeatDelay:  repeatDelay,
		focusHook:    focusHook,
		grab:         grabSlot{kind: GrabNone},
	}, nil
}

// NewKbd implements wl_seat.get_keyboard: the new resource is sent the
// current keymap (and repeat info, for version >= 4) and starts
// tracking focus/input like every other bound keyboard.
func (k *KeyboardState) NewKbd(kbd KeyboardResource) {
	f, err := k.keymap.KeymapFile()
	if err != nil {
		logger.Warnf("keyboard: failed to share keymap with client: %v", err)
		return
	}
	defer f.Close()

	size := uint32(len(k.keymap.String()) + 1)
	kbd.Keymap(XkbV1, int(f.Fd()), size)
	if kbd.Version() >= 4 {
		kbd.RepeatInfo(k.repeatRate, k.repeatDelay)
	}
	k.knownKbds = append(k.knownKbds, kbd)
}

// ChangeRepeatInfo updates the advertised key-repeat rate and delay,
// notifying every live keyboard at version >= 4.
func (k *KeyboardState) ChangeRepeatInfo(rate, delay int32) {
	k.repeatRate, k.repeatDelay = rate, delay
	k.pruneKbds()
	for _, kbd := range k.knownKbds {
		if kbd.Version() >= 4 {
			kbd.RepeatInfo(rate, delay)
		}
	}
}

// HasFocus reports whether client currently holds keyboard focus.
func (k *KeyboardState) HasFocus(client registry.ID) bool {
	return k.focus != nil && k.focus.Alive() && k.focus.ClientID() == client
}

// IsFocused reports whether any surface currently holds keyboard
// focus.
func (k *KeyboardState) IsFocused() bool { return k.focus != nil }

// Input feeds one raw key event through modifier tracking, an
// optional filter, and finally the grab stack. filter may intercept
// the event before any client sees it; its value (if intercepted) is
// returned as the first result, with true as the second.
func (k *KeyboardState) Input(keycode uint32, state KeyState, serial Serial, time uint32, filter func(ModifiersState, KeysymHandle) FilterResult) (any, bool) {
	changed := k.updateKey(keycode, state)
	handle := k.state.Keysym(keycode)

	if filter != nil {
		if res := filter(k.mods, handle); res.Intercept {
			return res.Value, true
		}
	}

	var mods *SerializedMods
	if changed {
		dep, lat, lock, layout := k.state.SerializedMods()
		mods = &SerializedMods{Depressed: dep, Latched: lat, Locked: lock, Layout: layout}
	}
	k.withGrab(func(h *KeyboardInnerHandle, g KeyboardGrab) {
		g.Input(h, keycode, state, mods, serial, time)
	})
	return nil, false
}

func (k *KeyboardState) updateKey(keycode uint32, state KeyState) bool {
	pressed := state == KeyPressed
	if pressed {
		k.pressedKeys = append(k.pressedKeys, keycode)
	} else {
		k.removeFirstPressed(keycode)
	}
	changed := k.state.UpdateKey(keycode+8, pressed)
	if changed {
		k.mods = k.state.Modifiers()
	}
	return changed
}

func (k *KeyboardState) removeFirstPressed(code uint32) {
	for i, c := range k.pressedKeys {
		if c == code {
			k.pressedKeys = append(k.pressedKeys[:i], k.pressedKeys[i+1:]...)
			return
		}
	}
}

// SetFocus moves keyboard focus, routed through the grab stack like
// any other input so an active grab can veto or redirect it.
func (k *KeyboardState) SetFocus(focus Surface, serial Serial) {
	k.pendingFocus = focus
	k.withGrab(func(h *KeyboardInnerHandle, g KeyboardGrab) {
		g.SetFocus(h, focus, serial)
	})
}

func (k *KeyboardState) pruneKbds() {
	alive := k.knownKbds[:0]
	for _, kbd := range k.knownKbds {
		if kbd.Alive() {
			alive = append(alive, kbd)
		}
	}
	k.knownKbds = alive
}

func (k *KeyboardState) withFocusedKeyboardsFor(surface Surface, f func(KeyboardResource)) {
	if surface == nil {
		return
	}
	k.pruneKbds()
	for _, kbd := range k.knownKbds {
		if kbd.ClientID() == surface.ClientID() {
			f(kbd)
		}
	}
}

func serializePressedKeys(keys []uint32) []byte {
	buf := make([]byte, 4*len(keys))
	for i, key := range keys {
		binary.LittleEndian.PutUint32(buf[i*4:], key)
	}
	return buf
}
