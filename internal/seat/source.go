package seat

import "github.com/bnema/waycore/internal/registry"

// SourceMetadata is a read-only snapshot of a data source's advertised
// MIME types and supported DnD actions.
type SourceMetadata struct {
	MimeTypes []string
	Actions   DndAction
}

func (m SourceMetadata) hasMime(mime string) bool {
	for _, t := range m.MimeTypes {
		if t == mime {
			return true
		}
	}
	return false
}

// DataSourceEvents is the wire resource backing one wl_data_source: the
// client-observable side of a data source, implemented by the
// embedder's protocol dispatch.
type DataSourceEvents interface {
	Send(mime string, fd int)
	Cancelled()
	DndDropPerformed()
	DndFinished()
	Action(action DndAction)
	PostError(code uint32, message string)
}

// DataSource is the server-side record of a client's wl_data_source: an
// accumulating MIME list and DnD action mask, frozen the moment it is
// handed to set_selection or start_drag.
type DataSource struct {
	obj    *registry.Object
	events DataSourceEvents

	mimeTypes []string
	mimeSet   map[string]struct{}
	actions   DndAction
	frozen    bool
}

// NewDataSource registers a fresh wl_data_source resource for client at
// the given protocol version.
func NewDataSource(reg *registry.Registry, client registry.ID, version uint32, events DataSourceEvents) *DataSource {
	return &DataSource{
		obj:     reg.NewObject(client, version),
		events:  events,
		mimeSet: make(map[string]struct{}),
	}
}

func (s *DataSource) ID() registry.ID       { return s.obj.ID() }
func (s *DataSource) ClientID() registry.ID { return s.obj.ClientID() }
func (s *DataSource) Version() uint32       { return s.obj.Version() }
func (s *DataSource) Alive() bool           { return s.obj.IsAlive() }

// MimeTypes returns the source's currently advertised MIME types.
func (s *DataSource) MimeTypes() []string {
	out := make([]string, len(s.mimeTypes))
	copy(out, s.mimeTypes)
	return out
}

// Actions returns the source's current DnD action mask.
func (s *DataSource) Actions() DndAction { return s.actions }

// HasMime reports whether mime is among the source's advertised types.
func (s *DataSource) HasMime(mime string) bool {
	_, ok := s.mimeSet[mime]
	return ok
}

// AddMime implements wl_data_source.offer: appends mime if it is not
// already present. Ignored once the source has entered its frozen
// phase, per spec — a source silently stops accepting new MIME types
// once it is in use, rather than erroring.
func (s *DataSource) AddMime(mime string) {
	if s.frozen {
		return
	}
	if _, ok := s.mimeSet[mime]; ok {
		return
	}
	s.mimeSet[mime] = struct{}{}
	s.mimeTypes = append(s.mimeTypes, mime)
}

// SetActions implements wl_data_source.set_actions. A zero mask is a
// no-op. Any other mask is rejected with invalid_action_mask if it
// carries unknown bits, if the source's version predates the request
// (added in version 3), or if the source has already been frozen by
// use in a drag or selection.
func (s *DataSource) SetActions(mask DndAction) error {
	if mask == DndActionNone {
		return nil
	}
	if s.frozen {
		s.events.PostError(DataSourceErrorInvalidActionMask, "cannot change actions after the source has been used")
		return ErrProtocol
	}
	if mask&^dndActionAll != 0 || s.obj.Version() < 3 {
		s.events.PostError(DataSourceErrorInvalidActionMask, "invalid or unsupported action mask")
		return ErrProtocol
	}
	s.actions = mask
	return nil
}

// Freeze marks the source as in use: further SetActions calls fail,
// though AddMime remains a silent no-op rather than an error.
func (s *DataSource) Freeze() { s.frozen = true }

// WithMetadata runs f with a snapshot of the source's MIME list and
// actions. It fails if the source is no longer alive.
func (s *DataSource) WithMetadata(f func(SourceMetadata)) error {
	if !s.Alive() {
		return ErrDeadResource
	}
	f(SourceMetadata{MimeTypes: s.MimeTypes(), Actions: s.actions})
	return nil
}
