//go:build linux

// Package xkb wraps libxkbcommon: compiling a keymap from an RMLVO
// quintuple, serializing it for client distribution, and tracking the
// live modifier/pressed-key state as key events arrive.
//
// libxkbcommon is not thread-safe; every Keymap and State created here
// must stay on the goroutine that owns the seat driving it (see
// internal/seat, which enforces single-threaded cooperative dispatch).
package xkb

// #cgo linux LDFLAGS: -lxkbcommon
// #include <stdlib.h>
// #include <xkbcommon/xkbcommon.h>
import "C"

import (
	"fmt"
	"os"
	"unsafe"
)

// RMLVO is the rules/model/layout/variant/options keymap-selection
// quintuple. A field left empty defers to the matching XKB_DEFAULT_*
// environment variable.
type RMLVO struct {
	Rules   string
	Model   string
	Layout  string
	Variant string
	Options string
}

func (r RMLVO) resolve() RMLVO {
	resolved := r
	if resolved.Rules == "" {
		resolved.Rules = os.Getenv("XKB_DEFAULT_RULES")
	}
	if resolved.Model == "" {
		resolved.Model = os.Getenv("XKB_DEFAULT_MODEL")
	}
	if resolved.Layout == "" {
		resolved.Layout = os.Getenv("XKB_DEFAULT_LAYOUT")
	}
	if resolved.Variant == "" {
		resolved.Variant = os.Getenv("XKB_DEFAULT_VARIANT")
	}
	if resolved.Options == "" {
		resolved.Options = os.Getenv("XKB_DEFAULT_OPTIONS")
	}
	return resolved
}

// Keymap is a compiled keymap and its serialized text-v1 form, ready to
// be handed to clients via a keymap fd.
type Keymap struct {
	ctx    *C.struct_xkb_context
	keymap *C.struct_xkb_keymap
	str    string
}

// Compile builds a keymap from rmlvo. Empty fields are resolved against
// the environment before compilation, never left to libxkbcommon's own
// (context-wide) environment lookup, so the resolution is explicit and
// per-call.
func Compile(rmlvo RMLVO) (*Keymap, error) {
	rmlvo = rmlvo.resolve()

	ctx := C.xkb_context_new(C.XKB_CONTEXT_NO_FLAGS)
	if ctx == nil {
		return nil, fmt.Errorf("xkb: xkb_context_new failed")
	}

	names := C.struct_xkb_rule_names{}
	cstrs := make([]*C.char, 0, 5)
	defer func() {
		for _, s := range cstrs {
			C.free(unsafe.Pointer(s))
		}
	}()
	cstr := func(s string) *C.char {
		if s == "" {
			return nil
		}
		c := C.CString(s)
		cstrs = append(cstrs, c)
		return c
	}
	names.rules = cstr(rmlvo.Rules)
	names.model = cstr(rmlvo.Model)
	names.layout = cstr(rmlvo.Layout)
	names.variant = cstr(rmlvo.Variant)
	names.options = cstr(rmlvo.Options)

	km := C.xkb_keymap_new_from_names(ctx, &names, C.XKB_KEYMAP_COMPILE_NO_FLAGS)
	if km == nil {
		C.xkb_context_unref(ctx)
		return nil, fmt.Errorf("xkb: xkb_keymap_new_from_names failed for %+v", rmlvo)
	}

	cstring := C.xkb_keymap_get_as_string(km, C.XKB_KEYMAP_FORMAT_TEXT_V1)
	if cstring == nil {
		C.xkb_keymap_unref(km)
		C.xkb_context_unref(ctx)
		return nil, fmt.Errorf("xkb: xkb_keymap_get_as_string failed")
	}
	str := C.GoString(cstring)
	C.free(unsafe.Pointer(cstring))

	return &Keymap{ctx: ctx, keymap: km, str: str}, nil
}

// String returns the keymap serialized in the XKB text-v1 format, as
// sent to clients via wl_keyboard.keymap.
func (k *Keymap) String() string { return k.str }

// NewState creates a fresh modifier/key tracking state bound to this
// keymap.
func (k *Keymap) NewState() *State {
	return &State{keymap: k, state: C.xkb_state_new(k.keymap)}
}

// Close releases the keymap's native resources. Safe to call once any
// States created from it have also been closed.
func (k *Keymap) Close() {
	if k.keymap != nil {
		C.xkb_keymap_unref(k.keymap)
		k.keymap = nil
	}
	if k.ctx != nil {
		C.xkb_context_unref(k.ctx)
		k.ctx = nil
	}
}

// ModifiersState is a snapshot of which named modifiers are currently
// effective.
type ModifiersState struct {
	Ctrl     bool
	Alt      bool
	Shift    bool
	CapsLock bool
	Logo     bool
	NumLock  bool
}

// State tracks one keyboard instance's live modifier and pressed-key
// state against a compiled Keymap.
type State struct {
	keymap *Keymap
	state  *C.struct_xkb_state
}

var (
	modCtrl  = cName("Control")
	modShift = cName("Shift")
	modAlt   = cName("Mod1")
	modCaps  = cName("Lock")
	modLogo  = cName("Mod4")
	modNum   = cName("Mod2")
)

func cName(s string) *C.char { return C.CString(s) }

// UpdateKey feeds one evdev keycode transition (already offset by +8 for
// the X/XKB keycode system) into the state machine. It reports whether
// any modifier component changed as a result.
func (s *State) UpdateKey(xkbKeycode uint32, pressed bool) bool {
	dir := C.XKB_KEY_UP
	if pressed {
		dir = C.XKB_KEY_DOWN
	}
	changed := C.xkb_state_update_key(s.state, C.xkb_keycode_t(xkbKeycode), C.enum_xkb_key_direction(dir))
	return changed != 0
}

// Modifiers returns the currently effective modifier snapshot.
func (s *State) Modifiers() ModifiersState {
	active := func(name *C.char) bool {
		return C.xkb_state_mod_name_is_active(s.state, name, C.XKB_STATE_MODS_EFFECTIVE) == 1
	}
	return ModifiersState{
		Ctrl:     active(modCtrl),
		Alt:      active(modAlt),
		Shift:    active(modShift),
		CapsLock: active(modCaps),
		Logo:     active(modLogo),
		NumLock:  active(modNum),
	}
}

// SerializedMods returns the (depressed, latched, locked, layout) tuple
// as sent in a wl_keyboard.modifiers event.
func (s *State) SerializedMods() (depressed, latched, locked, layout uint32) {
	depressed = uint32(C.xkb_state_serialize_mods(s.state, C.XKB_STATE_MODS_DEPRESSED))
	latched = uint32(C.xkb_state_serialize_mods(s.state, C.XKB_STATE_MODS_LATCHED))
	locked = uint32(C.xkb_state_serialize_mods(s.state, C.XKB_STATE_MODS_LOCKED))
	layout = uint32(C.xkb_state_serialize_layout(s.state, C.XKB_STATE_LAYOUT_LOCKED))
	return
}

// KeysymHandle exposes the keysym lookups for one xkb keycode (keycode
// already offset by +8) under the current state.
type KeysymHandle struct {
	state   *State
	keycode uint32
}

// Keysym returns a handle for looking up the keysym(s) bound to keycode
// (the raw evdev code, not yet offset) under this state.
func (s *State) Keysym(evdevKeycode uint32) KeysymHandle {
	return KeysymHandle{state: s, keycode: evdevKeycode + 8}
}

// ModifiedSym returns the single keysym for this keycode with the
// current modifier state applied, or NoSymbol if it maps to more than
// one.
func (h KeysymHandle) ModifiedSym() uint32 {
	return uint32(C.xkb_state_key_get_one_sym(h.state.state, C.xkb_keycode_t(h.keycode)))
}

// ModifiedSyms returns every keysym for this keycode with the current
// modifier state applied.
func (h KeysymHandle) ModifiedSyms() []uint32 {
	var syms *C.xkb_keysym_t
	n := C.xkb_state_key_get_syms(h.state.state, C.xkb_keycode_t(h.keycode), &syms)
	return symSlice(syms, n)
}

// RawSyms returns the keysyms for this keycode ignoring any modifier
// state (level 0 of the key's current layout).
func (h KeysymHandle) RawSyms() []uint32 {
	layout := C.xkb_state_key_get_layout(h.state.state, C.xkb_keycode_t(h.keycode))
	var syms *C.xkb_keysym_t
	n := C.xkb_keymap_key_get_syms_by_level(h.state.keymap.keymap, C.xkb_keycode_t(h.keycode), layout, 0, &syms)
	return symSlice(syms, n)
}

// RawCode returns the xkb-offset keycode (evdev code + 8).
func (h KeysymHandle) RawCode() uint32 { return h.keycode }

func symSlice(syms *C.xkb_keysym_t, n C.int) []uint32 {
	if n <= 0 || syms == nil {
		return nil
	}
	out := make([]uint32, int(n))
	cSlice := unsafe.Slice(syms, int(n))
	for i, s := range cSlice {
		out[i] = uint32(s)
	}
	return out
}

// KeysymName returns the human-readable name of a keysym, e.g. "Return".
func KeysymName(sym uint32) string {
	buf := make([]byte, 64)
	n := C.xkb_keysym_get_name(C.xkb_keysym_t(sym), (*C.char)(unsafe.Pointer(&buf[0])), C.size_t(len(buf)))
	if n < 0 {
		return ""
	}
	return string(buf[:n])
}
