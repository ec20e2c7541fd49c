package seat

import "github.com/bnema/waycore/internal/registry"

// DataDeviceEvent is delivered to the embedder's single event handler
// for every client-observable data-device action (offer-oriented
// protocol design note: tagged-variant events over per-callback
// plumbing).
type DataDeviceEvent interface{ isDataDeviceEvent() }

// EvNewSelection fires whenever set_selection assigns a new
// client-owned source (before it is frozen and advertised).
type EvNewSelection struct{ Source *DataSource }

// EvDnDStarted fires when start_drag begins a new drag-and-drop
// operation.
type EvDnDStarted struct {
	Source *DataSource // nil for a same-client icon-only drag
	Icon   Surface
}

// EvDnDDropped fires when a client-initiated drag-and-drop ends in a
// successful drop (the pointer button was released over a target that
// had negotiated an action). Any pointer icon should be removed by the
// embedder on receipt.
type EvDnDDropped struct{}

func (EvNewSelection) isDataDeviceEvent() {}
func (EvDnDStarted) isDataDeviceEvent()   {}
func (EvDnDDropped) isDataDeviceEvent()   {}

// ActionChooser arbitrates the single DnD action to negotiate from the
// source's available action set and the target's most recently
// requested preferred action.
type ActionChooser func(available, preferred DndAction) DndAction

// DefaultActionChooser mirrors the reference arbitration: honor a
// single preferred action if the source supports it, otherwise prefer
// Ask, then Copy, then Move, in that order.
func DefaultActionChooser(available, preferred DndAction) DndAction {
	if preferred.IsSingle() && available.Has(preferred) {
		return preferred
	}
	switch {
	case available.Has(DndActionAsk):
		return DndActionAsk
	case available.Has(DndActionCopy):
		return DndActionCopy
	case available.Has(DndActionMove):
		return DndActionMove
	default:
		return DndActionNone
	}
}

// DataDeviceManager implements the wl_data_device_manager global: it
// creates sources and devices, and arbitrates the two top-level
// requests that depend on more than a single resource (start_drag
// needs the pointer's implicit grab, set_selection needs keyboard
// focus).
type DataDeviceManager struct {
	reg           *registry.Registry
	seat          *Seat
	callback      func(DataDeviceEvent)
	actionChooser ActionChooser
}

// NewDataDeviceManager binds a manager to seat. A nil chooser installs
// DefaultActionChooser.
func NewDataDeviceManager(reg *registry.Registry, seat *Seat, callback func(DataDeviceEvent), chooser ActionChooser) *DataDeviceManager {
	if chooser == nil {
		chooser = DefaultActionChooser
	}
	return &DataDeviceManager{reg: reg, seat: seat, callback: callback, actionChooser: chooser}
}

// CreateDataSource implements wl_data_device_manager.create_data_source.
func (m *DataDeviceManager) CreateDataSource(client registry.ID, version uint32, events DataSourceEvents) *DataSource {
	return NewDataSource(m.reg, client, version, events)
}

// GetDataDevice implements wl_data_device_manager.get_data_device: the
// device starts receiving selection advertisements immediately.
func (m *DataDeviceManager) GetDataDevice(handle DataDeviceHandle) {
	m.seat.selection.AddDevice(handle)
}

// Release implements wl_data_device.release.
func (m *DataDeviceManager) Release(device DataDeviceHandle) {
	m.seat.selection.RemoveDevice(device)
}

// StartDrag implements wl_data_device.start_drag. The request is
// silently ignored (per protocol — not a protocol error) unless serial
// names the client's current implicit pointer grab. A non-nil icon is
// assigned the DnD-icon role; if it already carries another role, the
// request fails with a role protocol error instead.
func (m *DataDeviceManager) StartDrag(device DataDeviceHandle, source *DataSource, origin, icon Surface, serial Serial) {
	pointer := m.seat.pointer
	if pointer == nil || !pointer.HasGrab(serial) {
		return
	}
	if icon != nil {
		if err := icon.SetRole(RoleDnDIcon); err != nil {
			device.PostError(DataDeviceErrorRole, "surface already has another role")
			return
		}
	}
	if source != nil {
		source.Freeze()
	}
	if m.callback != nil {
		m.callback(EvDnDStarted{Source: source, Icon: icon})
	}
	grab := newClientDnDGrab(m.seat, source, origin, icon, m.actionChooser, m.callback)
	pointer.SetGrab(grab, serial)
}

// SetSelection implements wl_data_device.set_selection. The request is
// silently ignored unless the requesting device's client currently
// holds keyboard focus; a source of nil clears the selection.
func (m *DataDeviceManager) SetSelection(device DataDeviceHandle, source *DataSource) {
	kbd := m.seat.Keyboard
	if kbd == nil || !kbd.HasFocus(device.ClientID()) {
		return
	}
	if m.callback != nil {
		m.callback(EvNewSelection{Source: source})
	}
	if source == nil {
		m.seat.selection.SetSelection(Selection{Kind: SelectionEmpty})
		return
	}
	source.Freeze()
	m.seat.selection.SetSelection(Selection{Kind: SelectionClientOwned, Source: source})
}
