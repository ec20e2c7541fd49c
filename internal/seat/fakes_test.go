package seat

import "github.com/bnema/waycore/internal/registry"

type fakeSurface struct {
	id     registry.ID
	client registry.ID
	alive  bool
	role   string
}

func newFakeSurface(reg *registry.Registry, client registry.ID) *fakeSurface {
	obj := reg.NewObject(client, 1)
	return &fakeSurface{id: obj.ID(), client: client, alive: true}
}

func (s *fakeSurface) ID() registry.ID       { return s.id }
func (s *fakeSurface) ClientID() registry.ID { return s.client }
func (s *fakeSurface) Alive() bool           { return s.alive }
func (s *fakeSurface) Role() string          { return s.role }
func (s *fakeSurface) SetRole(role string) error {
	if s.role != "" && s.role != role {
		return ErrProtocol
	}
	s.role = role
	return nil
}

type sentPayload struct {
	mime string
	fd   int
}

type fakeSourceEvents struct {
	sent            []sentPayload
	cancelled       bool
	dropPerformed   bool
	finished        bool
	actions         []DndAction
	errCode         *uint32
	errMsg          string
}

func (f *fakeSourceEvents) Send(mime string, fd int)    { f.sent = append(f.sent, sentPayload{mime, fd}) }
func (f *fakeSourceEvents) Cancelled()                  { f.cancelled = true }
func (f *fakeSourceEvents) DndDropPerformed()           { f.dropPerformed = true }
func (f *fakeSourceEvents) DndFinished()                { f.finished = true }
func (f *fakeSourceEvents) Action(a DndAction)          { f.actions = append(f.actions, a) }
func (f *fakeSourceEvents) PostError(code uint32, msg string) {
	c := code
	f.errCode = &c
	f.errMsg = msg
}

type fakeOfferEvents struct {
	offered       []string
	sourceActions []DndAction
	actions       []DndAction
	errCode       *uint32
}

func (f *fakeOfferEvents) Offer(m string)             { f.offered = append(f.offered, m) }
func (f *fakeOfferEvents) SourceActions(a DndAction)  { f.sourceActions = append(f.sourceActions, a) }
func (f *fakeOfferEvents) Action(a DndAction)         { f.actions = append(f.actions, a) }
func (f *fakeOfferEvents) PostError(code uint32, msg string) {
	c := code
	f.errCode = &c
}

func testOfferFactory(reg *registry.Registry) OfferFactory {
	return func(d DataDeviceHandle) *DataOffer {
		return NewDataOffer(reg, d.ClientID(), d.Version(), &fakeOfferEvents{})
	}
}

type fakeDevice struct {
	client  registry.ID
	alive   bool
	version uint32

	offers     []*DataOffer
	selections []*DataOffer

	entered        bool
	enteredSurface Surface
	left           bool
	motions        int
	dropped        bool
	errCode        *uint32
}

func newFakeDevice(client registry.ID) *fakeDevice {
	return &fakeDevice{client: client, alive: true, version: 3}
}

func (f *fakeDevice) ClientID() registry.ID       { return f.client }
func (f *fakeDevice) Alive() bool                 { return f.alive }
func (f *fakeDevice) Version() uint32             { return f.version }
func (f *fakeDevice) DataOffer(o *DataOffer)      { f.offers = append(f.offers, o) }
func (f *fakeDevice) Selection(o *DataOffer)      { f.selections = append(f.selections, o) }
func (f *fakeDevice) Enter(serial Serial, surface Surface, x, y float64, offer *DataOffer) {
	f.entered = true
	f.enteredSurface = surface
}
func (f *fakeDevice) Leave()                 { f.left = true }
func (f *fakeDevice) Motion(time uint32, x, y float64) { f.motions++ }
func (f *fakeDevice) Drop()                  { f.dropped = true }
func (f *fakeDevice) PostError(code uint32, msg string) {
	c := code
	f.errCode = &c
}

type fakePointer struct {
	grabbedSerial Serial
	grab          PointerGrab
	startData     PointerGrabStartData
	restored      bool
	hasGrabSerial Serial
	hasGrabOK     bool
}

func (p *fakePointer) HasGrab(serial Serial) bool { return p.hasGrabOK && serial == p.hasGrabSerial }
func (p *fakePointer) GrabStartData() PointerGrabStartData { return p.startData }
func (p *fakePointer) SetGrab(grab PointerGrab, serial Serial) {
	p.grab = grab
	p.grabbedSerial = serial
}
func (p *fakePointer) RestoreGrab() { p.restored = true }

type fakeKbdResource struct {
	client  registry.ID
	alive   bool
	version uint32

	keymapFd   int
	keymapSize uint32
	entered    bool
	enteredKeys []byte
	left       bool
	keys       []struct {
		key   uint32
		state KeyState
	}
	mods          []SerializedMods
	repeatUpdates []struct{ rate, delay int32 }
}

func newFakeKbd(client registry.ID) *fakeKbdResource {
	return &fakeKbdResource{client: client, alive: true, version: 7}
}

func (k *fakeKbdResource) ClientID() registry.ID { return k.client }
func (k *fakeKbdResource) Alive() bool           { return k.alive }
func (k *fakeKbdResource) Version() uint32       { return k.version }
func (k *fakeKbdResource) Keymap(format uint32, fd int, size uint32) {
	k.keymapFd = fd
	k.keymapSize = size
}
func (k *fakeKbdResource) Enter(serial Serial, surface Surface, pressedKeys []byte) {
	k.entered = true
	k.enteredKeys = pressedKeys
}
func (k *fakeKbdResource) Leave(serial Serial, surface Surface) { k.left = true }
func (k *fakeKbdResource) Key(serial Serial, time uint32, key uint32, state KeyState) {
	k.keys = append(k.keys, struct {
		key   uint32
		state KeyState
	}{key, state})
}
func (k *fakeKbdResource) Modifiers(serial Serial, depressed, latched, locked, layout uint32) {
	k.mods = append(k.mods, SerializedMods{depressed, latched, locked, layout})
}
func (k *fakeKbdResource) RepeatInfo(rate, delay int32) {
	k.repeatUpdates = append(k.repeatUpdates, struct{ rate, delay int32 }{rate, delay})
}
