package seat

import "errors"

// Construction-time errors.
var (
	// ErrBadKeymap wraps a keymap compilation failure from internal/xkb.
	ErrBadKeymap = errors.New("seat: failed to compile keymap")
)

// ErrProtocol marks a request rejected with a protocol error; the
// caller has already been notified via the resource's PostError.
var ErrProtocol = errors.New("seat: protocol error")

// ErrDeadResource is returned by operations attempted against an
// already-destroyed registry object.
var ErrDeadResource = errors.New("seat: resource is no longer alive")

// Protocol error codes, matching the stable wl_data_device and
// wl_data_source protocol XML.
const (
	DataDeviceErrorRole uint32 = 0

	DataSourceErrorInvalidActionMask uint32 = 0
	DataSourceErrorInvalidSource     uint32 = 1
)
