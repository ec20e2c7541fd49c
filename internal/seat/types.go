// Package seat implements the per-seat data-device (selection and
// drag-and-drop) and keyboard state machines: the stateful core behind
// the wl_data_device_manager, wl_data_device, wl_data_source,
// wl_data_offer and wl_keyboard protocol objects.
//
// All mutation here happens on the single goroutine driving the
// compositor's event loop; like internal/registry, these types carry
// no locks and are not safe for concurrent use. Reentrancy into the
// keyboard grab stack is caught at runtime (see KeyboardState.withGrab)
// rather than prevented by synchronization.
//
// Surface hit-testing, pointer event routing and the client connection
// itself live outside this package; it depends on them only through
// the small interfaces declared here (Surface, Pointer, the
// *Resource/*Handle wire interfaces), which an embedder wires up to
// its own windowing and protocol dispatch.
package seat

import (
	"strings"

	"github.com/bnema/waycore/internal/registry"
)

// Serial is a compositor-assigned event serial, used to correlate a
// request (start_drag, set_selection) back to the input event that
// authorized it.
type Serial uint32

// DndAction is the wl_data_device_manager.dnd_action bitset.
type DndAction uint32

const (
	DndActionNone DndAction = 0
	DndActionCopy DndAction = 1 << 0
	DndActionMove DndAction = 1 << 1
	DndActionAsk  DndAction = 1 << 2
)

const dndActionAll = DndActionCopy | DndActionMove | DndActionAsk

// Has reports whether any bit of b is set in a.
func (a DndAction) Has(b DndAction) bool { return a&b != 0 }

// IsSingle reports whether a names exactly one action, the shape
// required of a "preferred action" argument.
func (a DndAction) IsSingle() bool {
	return a == DndActionCopy || a == DndActionMove || a == DndActionAsk
}

func (a DndAction) String() string {
	if a == DndActionNone {
		return "none"
	}
	var parts []string
	if a.Has(DndActionCopy) {
		parts = append(parts, "copy")
	}
	if a.Has(DndActionMove) {
		parts = append(parts, "move")
	}
	if a.Has(DndActionAsk) {
		parts = append(parts, "ask")
	}
	return strings.Join(parts, "|")
}

// KeyState is the pressed/released state of one key event.
type KeyState int

const (
	KeyReleased KeyState = iota
	KeyPressed
)

func (s KeyState) String() string {
	if s == KeyPressed {
		return "pressed"
	}
	return "released"
}

// Surface is the minimal contract this package needs from a
// compositor's surface objects: identity, ownership, liveness, and the
// single-assignment role string used to guard wl_surface role
// conflicts (e.g. a surface already in use as a DnD icon). Rendering,
// buffer attachment and the rest of wl_surface live entirely outside
// this package.
type Surface interface {
	ID() registry.ID
	ClientID() registry.ID
	Alive() bool
	Role() string
	SetRole(role string) error
}

// RoleDnDIcon is the role a surface is assigned when used as a drag
// icon via wl_data_device.start_drag.
const RoleDnDIcon = "dnd_icon"

// PointerGrabStartData captures the pointer state at the moment a grab
// began, used to validate that a later focus surface has not died.
type PointerGrabStartData struct {
	Focus Surface
	X, Y  float64
}

// PointerGrab is implemented by the drag-and-drop grabs (dnd.go) and
// installed as the seat's pointer input routing for the drag's
// duration.
type PointerGrab interface {
	Motion(x, y float64, time uint32)
	Button(serial Serial, time uint32, button uint32, pressed bool)
	Cancelled()
}

// Pointer is the minimal contract the drag machinery needs from the
// compositor's pointer input routing, which otherwise lives outside
// this module's scope.
type Pointer interface {
	HasGrab(serial Serial) bool
	GrabStartData() PointerGrabStartData
	SetGrab(grab PointerGrab, serial Serial)
	RestoreGrab()
}
