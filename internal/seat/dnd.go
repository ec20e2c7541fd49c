package seat

import "github.com/bnema/waycore/internal/logger"

// DragPhase is the drag-and-drop grab's state machine position.
type DragPhase int

const (
	DragPointing DragPhase = iota
	DragOnTarget
	DragDropped
	DragFinished
)

func (p DragPhase) String() string {
	switch p {
	case DragPointing:
		return "pointing"
	case DragOnTarget:
		return "on-target"
	case DragDropped:
		return "dropped"
	case DragFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// HitTestFunc resolves the surface under the pointer and, if it
// belongs to a client with a bound data device on this seat, that
// device. Surface hit-testing itself is outside this package's scope.
type HitTestFunc func(x, y float64) (Surface, DataDeviceHandle)

// dragSource is satisfied by both a client-owned *DataSource and the
// virtual source backing a ServerDnDGrab.
type dragSource interface {
	Alive() bool
	Actions() DndAction
	MimeTypes() []string
	hasMime(mime string) bool
	send(mime string, fd int)
	cancelled()
	dndDropPerformed()
	dndFinished()
	action(a DndAction)
}

// clientDragSource adapts *DataSource to dragSource.
type clientDragSource struct{ s *DataSource }

func (c clientDragSource) Alive() bool          { return c.s.Alive() }
func (c clientDragSource) Actions() DndAction   { return c.s.Actions() }
func (c clientDragSource) MimeTypes() []string  { return c.s.MimeTypes() }
func (c clientDragSource) hasMime(m string) bool { return c.s.HasMime(m) }
func (c clientDragSource) send(m string, fd int) { c.s.events.Send(m, fd) }
func (c clientDragSource) cancelled()            { c.s.events.Cancelled() }
func (c clientDragSource) dndDropPerformed()     { c.s.events.DndDropPerformed() }
func (c clientDragSource) dndFinished()          { c.s.events.DndFinished() }
func (c clientDragSource) action(a DndAction)    { c.s.events.Action(a) }

// ServerSourceEvents is the compositor's callback surface for a
// compositor-initiated drag (ServerDnDGrab): it supplies the data and
// observes the drag's terminal outcome, with no wl_data_source
// involved.
type ServerSourceEvents interface {
	Send(mime string, fd int)
	Cancelled()
	DndDropPerformed()
	DndFinished()
	Action(action DndAction)
}

// serverDragSource wraps a compositor-supplied metadata snapshot and
// callback as a dragSource, for ServerDnDGrab.
type serverDragSource struct {
	meta   SourceMetadata
	events ServerSourceEvents
	alive  bool
}

func (s *serverDragSource) Alive() bool         { return s.alive }
func (s *serverDragSource) Actions() DndAction  { return s.meta.Actions }
func (s *serverDragSource) MimeTypes() []string { return s.meta.MimeTypes }
func (s *serverDragSource) hasMime(m string) bool {
	return s.meta.hasMime(m)
}
func (s *serverDragSource) send(m string, fd int) { s.events.Send(m, fd) }
func (s *serverDragSource) cancelled()            { s.events.Cancelled() }
func (s *serverDragSource) dndDropPerformed()     { s.events.DndDropPerformed() }
func (s *serverDragSource) dndFinished()          { s.events.DndFinished() }
func (s *serverDragSource) action(a DndAction)     { s.events.Action(a) }

// dragCore is the state machine shared by ClientDnDGrab and
// ServerDnDGrab.
type dragCore struct {
	seat     *Seat
	phase    DragPhase
	chooser  ActionChooser
	callback func(DataDeviceEvent) // embedder's data-device event sink; nil for server-initiated drags

	source dragSource // nil: same-client icon-only drag, no data transfer
	origin Surface
	icon   Surface

	target        DataDeviceHandle
	targetSurface Surface
	offer         *DataOffer

	preferred DndAction
	available DndAction
	chosen    DndAction
}

func newDragCore(seat *Seat, source dragSource, origin, icon Surface, chooser ActionChooser, callback func(DataDeviceEvent)) *dragCore {
	if chooser == nil {
		chooser = DefaultActionChooser
	}
	return &dragCore{seat: seat, phase: DragPointing, chooser: chooser, callback: callback, source: source, origin: origin, icon: icon}
}

// Motion implements the grab's pointer-motion response: same-target
// updates are forwarded as wl_data_device.motion; crossing into a new
// surface re-enters with a fresh offer.
func (d *dragCore) Motion(x, y float64, time uint32, serial Serial) {
	if d.phase != DragPointing && d.phase != DragOnTarget {
		return
	}
	if d.source != nil && !d.source.Alive() {
		d.abortDeadSource()
		return
	}

	var surface Surface
	var device DataDeviceHandle
	if d.seat.hitTest != nil {
		surface, device = d.seat.hitTest(x, y)
	}

	if surface != nil && d.targetSurface != nil && surface.ID() == d.targetSurface.ID() && surface.Alive() {
		if d.target != nil && d.target.Alive() {
			d.target.Motion(time, x, y)
		}
		return
	}

	d.leaveTarget()
	if surface == nil || device == nil || !surface.Alive() {
		d.phase = DragPointing
		return
	}
	d.enterTarget(surface, device, serial, x, y)
}

func (d *dragCore) enterTarget(surface Surface, device DataDeviceHandle, serial Serial, x, y float64) {
	d.targetSurface = surface
	d.target = device
	d.phase = DragOnTarget
	d.preferred = DndActionNone
	d.available = DndActionNone
	d.chosen = DndActionNone

	var offer *DataOffer
	if d.source != nil {
		offer = d.seat.newOffer(device)
		offer.onReceive = func(mime string, fd int) {
			if !d.source.Alive() || !d.source.hasMime(mime) {
				closeFd(fd)
				return
			}
			d.source.send(mime, fd)
		}
		offer.onAccept = func(_ Serial, mime string) {
			_ = mime // cursor feedback only; no action-negotiation effect
		}
		offer.onSetActions = func(supported, preferred DndAction) {
			d.negotiate(supported, preferred)
		}
		offer.onFinish = func() {
			d.Finished()
		}
		d.offer = offer
		device.DataOffer(offer)
		offer.Advertise(d.source.MimeTypes())
		offer.SourceActions(d.source.Actions())
		d.available = d.source.Actions()
	}
	device.Enter(serial, surface, x, y, offer)
}

func (d *dragCore) negotiate(supported, preferred DndAction) {
	if d.source == nil || d.offer == nil {
		return
	}
	d.preferred = preferred
	d.available = d.source.Actions() & supported
	d.chosen = d.chooser(d.available, d.preferred)
	d.offer.AnnounceAction(d.chosen)
	d.source.action(d.chosen)
}

func (d *dragCore) leaveTarget() {
	if d.target != nil && d.target.Alive() {
		d.target.Leave()
	}
	d.target = nil
	d.targetSurface = nil
	d.offer = nil
	if d.phase == DragOnTarget {
		d.phase = DragPointing
	}
}

func (d *dragCore) abortDeadSource() {
	if d.targetSurface != nil {
		d.leaveTarget()
	}
	d.phase = DragFinished
	d.seat.pointer.RestoreGrab()
}

// Button implements the grab's pointer-button response: any button
// press is absorbed; a release evaluates the drop.
func (d *dragCore) Button(serial Serial, time uint32, button uint32, pressed bool) {
	if pressed {
		return
	}
	if d.phase != DragOnTarget {
		d.finishCancelled()
		d.seat.pointer.RestoreGrab()
		return
	}
	sourceOK := d.source == nil || len(d.source.MimeTypes()) > 0
	if d.chosen != DndActionNone && sourceOK {
		if d.target != nil && d.target.Alive() {
			d.target.Drop()
		}
		if d.source != nil {
			d.source.dndDropPerformed()
		}
		d.phase = DragDropped
		if d.callback != nil {
			d.callback(EvDnDDropped{})
		}
	} else {
		d.finishCancelled()
	}
	d.seat.pointer.RestoreGrab()
}

func (d *dragCore) finishCancelled() {
	if d.source != nil {
		d.source.cancelled()
	}
	d.phase = DragFinished
}

// Finished is invoked when the target signals completion of the drop
// (wl_data_offer.finish). Per spec, the source resource itself is not
// force-destroyed here: it remains alive until the client that owns it
// releases it.
func (d *dragCore) Finished() {
	if d.phase != DragDropped {
		return
	}
	if d.source != nil {
		d.source.dndFinished()
	}
	d.phase = DragFinished
}

// Cancelled implements the grab being torn down externally (e.g. the
// pointer grab is reassigned, or the compositor aborts the drag).
func (d *dragCore) Cancelled() {
	if d.phase == DragFinished {
		return
	}
	d.leaveTarget()
	if d.source != nil {
		d.source.cancelled()
	}
	d.phase = DragFinished
}

// ClientDnDGrab is the PointerGrab installed for the duration of a
// client-initiated drag started via wl_data_device.start_drag.
type ClientDnDGrab struct{ *dragCore }

func newClientDnDGrab(seat *Seat, source *DataSource, origin, icon Surface, chooser ActionChooser, callback func(DataDeviceEvent)) *ClientDnDGrab {
	var src dragSource
	if source != nil {
		src = clientDragSource{s: source}
	}
	return &ClientDnDGrab{dragCore: newDragCore(seat, src, origin, icon, chooser, callback)}
}

func (g *ClientDnDGrab) Motion(x, y float64, time uint32) {
	g.dragCore.Motion(x, y, time, g.seat.nextSerial())
}

// ServerDnDGrab is the PointerGrab for a compositor-initiated drag,
// carrying a compositor-supplied virtual source instead of a client's
// wl_data_source.
type ServerDnDGrab struct{ *dragCore }

// NewServerDnDGrab starts a compositor-initiated drag. meta describes
// the data the compositor is prepared to hand over; events observes
// the drag's outcome.
func NewServerDnDGrab(seat *Seat, meta SourceMetadata, events ServerSourceEvents, origin, icon Surface, chooser ActionChooser) *ServerDnDGrab {
	src := &serverDragSource{meta: meta, events: events, alive: true}
	return &ServerDnDGrab{dragCore: newDragCore(seat, src, origin, icon, chooser, nil)}
}

func (g *ServerDnDGrab) Motion(x, y float64, time uint32) {
	g.dragCore.Motion(x, y, time, g.seat.nextSerial())
}

// End marks the virtual source dead, e.g. when the compositor decides
// to abort a drag it initiated itself.
func (g *ServerDnDGrab) End() {
	if src, ok := g.source.(*serverDragSource); ok {
		src.alive = false
	}
	logger.Debug("server dnd grab ended")
}
