package seat

import (
	"testing"

	"github.com/bnema/waycore/internal/registry"
	"github.com/stretchr/testify/assert"
)

func newDragTestSeat(reg *registry.Registry, hitTest HitTestFunc) *Seat {
	s := NewSeat("seat0", reg)
	s.InitSelection(nil, testOfferFactory(reg))
	s.SetHitTest(hitTest)
	pointer := &fakePointer{}
	s.SetPointer(pointer)
	return s
}

func TestDragEnterAdvertisesOfferAndActions(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	target := newFakeSurface(reg, client)
	dev := newFakeDevice(client)

	s := newDragTestSeat(reg, func(x, y float64) (Surface, DataDeviceHandle) { return target, dev })
	events := &fakeSourceEvents{}
	src := NewDataSource(reg, client, 3, events)
	src.AddMime("text/plain")
	src.SetActions(DndActionCopy | DndActionMove)

	grab := newClientDnDGrab(s, src, nil, nil, nil, nil)
	grab.Motion(10, 10, 1000)

	assert.True(t, dev.entered)
	assert.Equal(t, target, dev.enteredSurface)
	assert.Len(t, dev.offers, 1)
	offerEvents := dev.offers[0].events.(*fakeOfferEvents)
	assert.Equal(t, []string{"text/plain"}, offerEvents.offered)
	assert.Equal(t, []DndAction{DndActionCopy | DndActionMove}, offerEvents.sourceActions)
}

func TestDragActionNegotiation(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	target := newFakeSurface(reg, client)
	dev := newFakeDevice(client)

	s := newDragTestSeat(reg, func(x, y float64) (Surface, DataDeviceHandle) { return target, dev })
	events := &fakeSourceEvents{}
	src := NewDataSource(reg, client, 3, events)
	src.AddMime("text/plain")
	src.SetActions(DndActionCopy | DndActionMove)

	grab := newClientDnDGrab(s, src, nil, nil, nil, nil)
	grab.Motion(0, 0, 1000)

	offer := dev.offers[0]
	offer.SetActions(DndActionCopy|DndActionMove, DndActionMove)

	assert.Equal(t, DndActionMove, grab.chosen)
	assert.Contains(t, events.actions, DndActionMove)
}

func TestDragLeaveOnTargetChange(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	surfaceA := newFakeSurface(reg, client)
	surfaceB := newFakeSurface(reg, client)
	devA := newFakeDevice(client)
	devB := newFakeDevice(client)

	var current Surface = surfaceA
	var currentDev DataDeviceHandle = devA
	s := newDragTestSeat(reg, func(x, y float64) (Surface, DataDeviceHandle) { return current, currentDev })

	src := NewDataSource(reg, client, 3, &fakeSourceEvents{})
	src.AddMime("text/plain")

	grab := newClientDnDGrab(s, src, nil, nil, nil, nil)
	grab.Motion(0, 0, 1000)
	assert.True(t, devA.entered)

	current, currentDev = surfaceB, devB
	grab.Motion(5, 5, 1001)

	assert.True(t, devA.left)
	assert.True(t, devB.entered)
}

func TestDragDropWithNegotiatedAction(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	target := newFakeSurface(reg, client)
	dev := newFakeDevice(client)

	s := newDragTestSeat(reg, func(x, y float64) (Surface, DataDeviceHandle) { return target, dev })
	events := &fakeSourceEvents{}
	src := NewDataSource(reg, client, 3, events)
	src.AddMime("text/plain")
	src.SetActions(DndActionCopy)

	var seen []DataDeviceEvent
	grab := newClientDnDGrab(s, src, nil, nil, nil, func(e DataDeviceEvent) { seen = append(seen, e) })
	grab.Motion(0, 0, 1000)
	dev.offers[0].SetActions(DndActionCopy, DndActionCopy)

	grab.Button(1, 2000, 272, true)  // press: absorbed
	grab.Button(1, 2001, 272, false) // release: evaluates the drop

	assert.True(t, dev.dropped)
	assert.Equal(t, DragDropped, grab.phase)
	assert.True(t, events.dropPerformed)
	assert.True(t, s.pointer.(*fakePointer).restored)
	assert.Contains(t, seen, EvDnDDropped{})
}

func TestDragCancelledWhenNoActionNegotiated(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	target := newFakeSurface(reg, client)
	dev := newFakeDevice(client)

	s := newDragTestSeat(reg, func(x, y float64) (Surface, DataDeviceHandle) { return target, dev })
	events := &fakeSourceEvents{}
	src := NewDataSource(reg, client, 3, events)
	src.AddMime("text/plain")

	grab := newClientDnDGrab(s, src, nil, nil, nil, nil)
	grab.Motion(0, 0, 1000) // no action negotiated: chosen stays None

	grab.Button(1, 2000, 272, false)

	assert.False(t, dev.dropped)
	assert.True(t, events.cancelled)
	assert.Equal(t, DragFinished, grab.phase)
}

func TestDragAbortsWhenSourceDies(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1).ID()
	target := newFakeSurface(reg, client)
	dev := newFakeDevice(client)

	s := newDragTestSeat(reg, func(x, y float64) (Surface, DataDeviceHandle) { return target, dev })
	src := NewDataSource(reg, client, 3, &fakeSourceEvents{})
	src.AddMime("text/plain")

	grab := newClientDnDGrab(s, src, nil, nil, nil, nil)
	grab.Motion(0, 0, 1000)
	assert.True(t, dev.entered)

	reg.Destroy(src.ID())
	grab.Motion(5, 5, 1001)

	assert.True(t, dev.left)
	assert.Equal(t, DragFinished, grab.phase)
	assert.True(t, s.pointer.(*fakePointer).restored)
}
