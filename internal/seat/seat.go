package seat

import (
	"github.com/bnema/waycore/internal/registry"
	"github.com/bnema/waycore/internal/xkb"
)

// Seat ties together one seat's selection, keyboard and drag-and-drop
// state: the container a compositor constructs once per physical seat
// (wl_seat global) and drives from its input and focus-tracking code.
type Seat struct {
	Name string

	reg       *registry.Registry
	selection *SelectionState
	Keyboard  *KeyboardState
	pointer   Pointer
	hitTest   HitTestFunc
	newOffer  OfferFactory

	serial   Serial
	userData map[string]any
}

// NewSeat creates an unconfigured seat named name. Selection and
// keyboard support are added separately via InitSelection and
// InitKeyboard so a headless or keyboard-less seat can skip either.
func NewSeat(name string, reg *registry.Registry) *Seat {
	return &Seat{Name: name, reg: reg, userData: make(map[string]any)}
}

// SetPointer installs the compositor's pointer input routing, required
// before StartDrag can succeed.
func (s *Seat) SetPointer(p Pointer) { s.pointer = p }

// SetHitTest installs the surface/data-device hit-testing callback
// used during an active drag to find the surface under the pointer.
func (s *Seat) SetHitTest(f HitTestFunc) { s.hitTest = f }

// InitSelection enables clipboard selection tracking (4.C) and
// installs the offer factory used by both selection advertisement and
// drag-and-drop targets.
func (s *Seat) InitSelection(send SendSelectionFunc, newOffer OfferFactory) {
	s.selection = NewSelectionState(send, newOffer)
	s.newOffer = newOffer
}

// InitKeyboard compiles rmlvo and enables keyboard input and focus
// tracking (4.F/4.G). The keyboard's focus hook drives the seat's
// data-device selection focus (4.C) the way the reference compositor
// calls set_data_device_focus from its own keyboard focus hook;
// externalFocusHook (optional) runs after that.
func (s *Seat) InitKeyboard(rmlvo xkb.RMLVO, repeatRate, repeatDelay int32, externalFocusHook func(Surface)) error {
	kb, err := NewKeyboardState(rmlvo, repeatRate, repeatDelay, func(focus Surface) {
		if s.selection != nil {
			var client *registry.ID
			if focus != nil {
				id := focus.ClientID()
				client = &id
			}
			s.selection.SetFocus(client)
		}
		if externalFocusHook != nil {
			externalFocusHook(focus)
		}
	})
	if err != nil {
		return err
	}
	s.Keyboard = kb
	return nil
}

// Selection returns the seat's current clipboard selection.
func (s *Seat) Selection() Selection {
	if s.selection == nil {
		return Selection{Kind: SelectionEmpty}
	}
	return s.selection.Current()
}

// SetUserData attaches compositor-defined state to the seat (e.g. a
// pointer icon surface, input-method state).
func (s *Seat) SetUserData(key string, value any) {
	if s.userData == nil {
		s.userData = make(map[string]any)
	}
	s.userData[key] = value
}

// UserData retrieves compositor-defined state previously attached with
// SetUserData.
func (s *Seat) UserData(key string) (any, bool) {
	v, ok := s.userData[key]
	return v, ok
}

// nextSerial hands out a fresh, monotonically increasing event serial
// for this seat's drag-and-drop motion events.
func (s *Seat) nextSerial() Serial {
	s.serial++
	return s.serial
}
