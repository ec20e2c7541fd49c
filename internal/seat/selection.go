package seat

import "github.com/bnema/waycore/internal/registry"

// SelectionKind distinguishes the three states a seat's clipboard
// selection can be in.
type SelectionKind int

const (
	// SelectionEmpty: no selection has ever been set, it was cleared
	// (set_selection with no source), or the last client-owned source
	// died.
	SelectionEmpty SelectionKind = iota
	// SelectionClientOwned: a live client's wl_data_source backs the
	// selection.
	SelectionClientOwned
	// SelectionCompositorOwned: the compositor itself backs the
	// selection (e.g. a primary selection bridged from another
	// clipboard), with no wl_data_source involved.
	SelectionCompositorOwned
)

// Selection is the seat's current clipboard content.
type Selection struct {
	Kind SelectionKind
	// Source is set only when Kind is SelectionClientOwned.
	Source *DataSource
	// Metadata is set only when Kind is SelectionCompositorOwned.
	Metadata SourceMetadata
}

// SendSelectionFunc is the compositor's callback for a
// compositor-owned selection: write mime's bytes to fd and close it.
// Selections backed by a live client source instead ask the source
// itself to perform the write.
type SendSelectionFunc func(mime string, fd int)

// DataDeviceHandle is the wire resource for one client's bound
// wl_data_device.
type DataDeviceHandle interface {
	ClientID() registry.ID
	Alive() bool
	Version() uint32
	DataOffer(offer *DataOffer)
	Selection(offer *DataOffer)
	Enter(serial Serial, surface Surface, x, y float64, offer *DataOffer)
	Leave()
	Motion(time uint32, x, y float64)
	Drop()
	PostError(code uint32, message string)
}

// OfferFactory creates a fresh wl_data_offer resource bound to
// device's client at device's protocol version. Supplied by the
// embedder, which owns the real client connection and resource
// allocation underneath DataOfferEvents.
type OfferFactory func(device DataDeviceHandle) *DataOffer

// SelectionState tracks the seat's clipboard selection and
// re-advertises it to the focused client's data devices whenever the
// selection or the data-device focus changes.
type SelectionState struct {
	devices       []DataDeviceHandle
	selection     Selection
	currentFocus  *registry.ID
	sendSelection SendSelectionFunc
	newOffer      OfferFactory
}

// NewSelectionState creates an empty selection, not yet focused on any
// client.
func NewSelectionState(sendSelection SendSelectionFunc, newOffer OfferFactory) *SelectionState {
	return &SelectionState{sendSelection: sendSelection, newOffer: newOffer}
}

// AddDevice registers a newly bound wl_data_device so it receives
// future selection advertisements.
func (s *SelectionState) AddDevice(d DataDeviceHandle) {
	s.devices = append(s.devices, d)
}

// RemoveDevice implements wl_data_device.release: the device no longer
// receives advertisements.
func (s *SelectionState) RemoveDevice(target DataDeviceHandle) {
	filtered := s.devices[:0]
	for _, d := range s.devices {
		if d.Alive() && d != target {
			filtered = append(filtered, d)
		}
	}
	s.devices = filtered
}

// Current returns the seat's current selection.
func (s *SelectionState) Current() Selection { return s.selection }

// SetFocus updates which client's data devices the selection is
// advertised to, re-running the advertisement algorithm immediately. A
// nil client clears focus (no devices are advertised to).
func (s *SelectionState) SetFocus(client *registry.ID) {
	s.currentFocus = client
	s.advertise()
}

// SetSelection implements wl_data_device.set_selection and
// compositor-driven selection changes alike: it replaces the seat's
// selection and re-advertises to the focused client.
func (s *SelectionState) SetSelection(sel Selection) {
	s.selection = sel
	s.advertise()
}

func (s *SelectionState) pruneDevices() {
	alive := s.devices[:0]
	for _, d := range s.devices {
		if d.Alive() {
			alive = append(alive, d)
		}
	}
	s.devices = alive
}

// advertise re-runs the advertisement algorithm: if a client-owned
// source has died since it was last set, the selection collapses to
// Empty; then a fresh offer (or a null selection) is sent to every
// live data device of the focused client.
func (s *SelectionState) advertise() {
	if s.currentFocus == nil {
		return
	}
	focus := *s.currentFocus

	if s.selection.Kind == SelectionClientOwned && !s.selection.Source.Alive() {
		s.selection = Selection{Kind: SelectionEmpty}
	}

	s.pruneDevices()
	for _, d := range s.devices {
		if d.ClientID() != focus {
			continue
		}
		switch s.selection.Kind {
		case SelectionEmpty:
			d.Selection(nil)
		case SelectionClientOwned:
			s.advertiseClientOwned(d, s.selection.Source)
		case SelectionCompositorOwned:
			s.advertiseCompositorOwned(d, s.selection.Metadata)
		}
	}
}

func (s *SelectionState) advertiseClientOwned(d DataDeviceHandle, source *DataSource) {
	offer := s.newOffer(d)
	offer.onReceive = func(mime string, fd int) {
		if !source.Alive() || !source.HasMime(mime) {
			closeFd(fd)
			return
		}
		source.events.Send(mime, fd)
	}
	d.DataOffer(offer)
	var meta SourceMetadata
	_ = source.WithMetadata(func(m SourceMetadata) { meta = m })
	offer.Advertise(meta.MimeTypes)
	d.Selection(offer)
}

func (s *SelectionState) advertiseCompositorOwned(d DataDeviceHandle, meta SourceMetadata) {
	offer := s.newOffer(d)
	offer.onReceive = func(mime string, fd int) {
		if !meta.hasMime(mime) {
			closeFd(fd)
			return
		}
		s.sendSelection(mime, fd)
	}
	d.DataOffer(offer)
	offer.Advertise(meta.MimeTypes)
	d.Selection(offer)
}
