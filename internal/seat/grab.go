package seat

// GrabStatusKind is the keyboard grab slot's current occupancy.
type GrabStatusKind int

const (
	// GrabNone: input dispatches straight to DefaultGrab.
	GrabNone GrabStatusKind = iota
	// GrabActive: a handler has claimed the slot via SetGrab.
	GrabActive
	// GrabBorrowed: the slot is mid-dispatch (inside withGrab); any
	// attempt to re-enter in this state is a reentrancy bug.
	GrabBorrowed
)

// GrabStartData captures the state a grab began with, so the stack can
// detect a focus surface that has since died and silently fall back to
// DefaultGrab rather than dispatch to a handler holding a stale
// reference.
type GrabStartData struct {
	Focus Surface
}

// KeyboardGrab is implemented by anything that wants to intercept
// keyboard input and focus changes ahead of the default per-client
// dispatch, e.g. a popup grab or an in-progress interactive keybinding
// capture.
type KeyboardGrab interface {
	Input(handle *KeyboardInnerHandle, keycode uint32, state KeyState, modifiers *SerializedMods, serial Serial, time uint32)
	SetFocus(handle *KeyboardInnerHandle, focus Surface, serial Serial)
	StartData() GrabStartData
}

type grabSlot struct {
	kind    GrabStatusKind
	serial  Serial
	handler KeyboardGrab
}

// SetGrab installs grab as the active keyboard grab, to be consulted
// ahead of DefaultGrab for every subsequent Input and SetFocus call.
func (k *KeyboardState) SetGrab(serial Serial, grab KeyboardGrab) {
	k.grab = grabSlot{kind: GrabActive, serial: serial, handler: grab}
}

// UnsetGrab releases the active grab. If restoreFocus is set, the
// keyboard focus last requested via SetFocus while the grab was active
// is re-applied through DefaultGrab.
func (k *KeyboardState) UnsetGrab(serial Serial, restoreFocus bool) {
	k.grab = grabSlot{kind: GrabNone}
	if restoreFocus {
		k.SetFocus(k.pendingFocus, serial)
	}
}

// HasGrab reports whether serial names the currently active grab.
func (k *KeyboardState) HasGrab(serial Serial) bool {
	return k.grab.kind == GrabActive && k.grab.serial == serial
}

// IsGrabbed reports whether any handler currently holds the grab slot.
func (k *KeyboardState) IsGrabbed() bool { return k.grab.kind == GrabActive }

// GrabStartData returns the active grab's start data, if any.
func (k *KeyboardState) GrabStartData() (GrabStartData, bool) {
	if k.grab.kind != GrabActive {
		return GrabStartData{}, false
	}
	return k.grab.handler.StartData(), true
}

// defaultGrab forwards straight to the inner handle's default behavior
// (4.F's send-to-focused-clients semantics), with no interception.
type defaultGrab struct{}

func (defaultGrab) Input(h *KeyboardInnerHandle, keycode uint32, state KeyState, modifiers *SerializedMods, serial Serial, time uint32) {
	h.input(keycode, state, modifiers, serial, time)
}

func (defaultGrab) SetFocus(h *KeyboardInnerHandle, focus Surface, serial Serial) {
	h.setFocus(focus, serial)
}

func (defaultGrab) StartData() GrabStartData {
	panic("seat: DefaultGrab has no start data; it is never installed via SetGrab")
}

// KeyboardInnerHandle is the capability a KeyboardGrab is given to
// perform the actual input delivery and focus changes, and to
// install or clear the grab from within its own callback.
type KeyboardInnerHandle struct{ k *KeyboardState }

// SetGrab installs a new grab from within a grab callback (e.g. a
// pointer-driven drag also wanting to borrow keyboard input).
func (h *KeyboardInnerHandle) SetGrab(serial Serial, grab KeyboardGrab) {
	h.k.grab = grabSlot{kind: GrabActive, serial: serial, handler: grab}
}

// UnsetGrab releases the grab from within a grab callback.
func (h *KeyboardInnerHandle) UnsetGrab(serial Serial, restoreFocus bool) {
	h.k.grab = grabSlot{kind: GrabNone}
	if restoreFocus {
		h.setFocus(h.k.pendingFocus, serial)
	}
}

// CurrentFocus returns the keyboard's current focus surface, if any.
func (h *KeyboardInnerHandle) CurrentFocus() Surface { return h.k.focus }

// Input performs the default input-delivery side effect: key and
// (if the modifier state changed) modifiers events to every keyboard
// resource of the focused client.
func (h *KeyboardInnerHandle) Input(keycode uint32, state KeyState, modifiers *SerializedMods, serial Serial, time uint32) {
	h.input(keycode, state, modifiers, serial, time)
}

func (h *KeyboardInnerHandle) input(keycode uint32, state KeyState, modifiers *SerializedMods, serial Serial, time uint32) {
	h.k.withFocusedKeyboardsFor(h.k.focus, func(kbd KeyboardResource) {
		kbd.Key(serial, time, keycode, state)
		if modifiers != nil {
			kbd.Modifiers(serial, modifiers.Depressed, modifiers.Latched, modifiers.Locked, modifiers.Layout)
		}
	})
}

// SetFocus performs the default focus-change side effects: leave to
// the old focus's keyboards, enter plus a modifiers event to the new
// focus's keyboards, then the engine's external focus hook.
func (h *KeyboardInnerHandle) SetFocus(focus Surface, serial Serial) {
	h.setFocus(focus, serial)
}

func (h *KeyboardInnerHandle) setFocus(focus Surface, serial Serial) {
	k := h.k
	same := (focus == nil && k.focus == nil) ||
		(focus != nil && k.focus != nil && focus.Alive() && focus.ID() == k.focus.ID())
	if same {
		return
	}

	old := k.focus
	if old != nil {
		k.withFocusedKeyboardsFor(old, func(kbd KeyboardResource) {
			kbd.Leave(serial, old)
		})
	}

	k.focus = focus
	if focus != nil {
		dep, lat, lock, layout := k.state.SerializedMods()
		keys := serializePressedKeys(k.pressedKeys)
		k.withFocusedKeyboardsFor(focus, func(kbd KeyboardResource) {
			kbd.Enter(serial, focus, keys)
			kbd.Modifiers(serial, dep, lat, lock, layout)
		})
	}

	if k.focusHook != nil {
		k.focusHook(focus)
	}
}

// withGrab dispatches f to the active grab, or DefaultGrab if none is
// installed or the active grab's start-data focus has died. Re-entrant
// calls (f itself triggering another withGrab while this one is still
// running) panic: the grab slot is swapped to GrabBorrowed for the
// call's duration precisely to catch this.
func (k *KeyboardState) withGrab(f func(*KeyboardInnerHandle, KeyboardGrab)) {
	prev := k.grab
	if prev.kind == GrabBorrowed {
		panic("seat: keyboard grab accessed while borrowed (reentrant grab dispatch)")
	}
	k.grab = grabSlot{kind: GrabBorrowed}

	handler, restore := resolveGrab(prev)
	f(&KeyboardInnerHandle{k: k}, handler)

	if k.grab.kind == GrabBorrowed {
		k.grab = restore
	}
}

func resolveGrab(prev grabSlot) (KeyboardGrab, grabSlot) {
	if prev.kind != GrabActive {
		return defaultGrab{}, grabSlot{kind: GrabNone}
	}
	sd := prev.handler.StartData()
	if sd.Focus != nil && !sd.Focus.Alive() {
		return defaultGrab{}, grabSlot{kind: GrabNone}
	}
	return prev.handler, prev
}
