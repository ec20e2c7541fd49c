package seat

import "github.com/bnema/waycore/internal/registry"

// DataOfferEvents is the wire resource backing one wl_data_offer.
type DataOfferEvents interface {
	Offer(mime string)
	SourceActions(actions DndAction)
	Action(action DndAction)
	PostError(code uint32, message string)
}

// DataOffer is a server-side, ephemeral pairing of a data source with
// one client's data device. It is created fresh for every
// advertisement (a new selection, or a pointer entering a new drop
// target) and discarded once superseded.
type DataOffer struct {
	obj    *registry.Object
	events DataOfferEvents

	onReceive    func(mime string, fd int)
	onAccept     func(serial Serial, mime string)
	onSetActions func(supported, preferred DndAction)
	onFinish     func()
}

// NewDataOffer registers a fresh wl_data_offer resource bound to
// client at the given protocol version.
func NewDataOffer(reg *registry.Registry, client registry.ID, version uint32, events DataOfferEvents) *DataOffer {
	return &DataOffer{obj: reg.NewObject(client, version), events: events}
}

func (o *DataOffer) ID() registry.ID       { return o.obj.ID() }
func (o *DataOffer) ClientID() registry.ID { return o.obj.ClientID() }
func (o *DataOffer) Version() uint32       { return o.obj.Version() }
func (o *DataOffer) Alive() bool           { return o.obj.IsAlive() }

// Advertise sends one offer event per MIME type.
func (o *DataOffer) Advertise(mimeTypes []string) {
	for _, m := range mimeTypes {
		o.events.Offer(m)
	}
}

// SourceActions sends the source_actions event for a drag offer.
func (o *DataOffer) SourceActions(actions DndAction) {
	o.events.SourceActions(actions)
}

// AnnounceAction sends the action event: the negotiated outcome.
func (o *DataOffer) AnnounceAction(action DndAction) {
	o.events.Action(action)
}

// Receive implements wl_data_offer.receive: validated and handled by
// whichever handler installed onReceive (selection.go or dnd.go).
func (o *DataOffer) Receive(mime string, fd int) {
	if o.onReceive != nil {
		o.onReceive(mime, fd)
		return
	}
	closeFd(fd)
}

// Accept implements wl_data_offer.accept (drag offers only).
func (o *DataOffer) Accept(serial Serial, mime string) {
	if o.onAccept != nil {
		o.onAccept(serial, mime)
	}
}

// SetActions implements wl_data_offer.set_actions (drag offers only).
func (o *DataOffer) SetActions(supported, preferred DndAction) {
	if o.onSetActions != nil {
		o.onSetActions(supported, preferred)
	}
}

// Finish implements wl_data_offer.finish (drag offers only).
func (o *DataOffer) Finish() {
	if o.onFinish != nil {
		o.onFinish()
	}
}
