//go:build linux

package xkb

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KeymapFile creates an anonymous (unsealed) memfd holding the keymap's
// text-v1 serialization and returns it rewound to offset 0, ready to be
// handed to a client as the fd argument of wl_keyboard.keymap.
//
// A memfd is used instead of a named tempfile (the literal wording of
// the original spec) so the keymap is never visible in the filesystem
// and no cleanup/unlink step can be forgotten or race a concurrent
// reader.
func (k *Keymap) KeymapFile() (*os.File, error) {
	fd, err := unix.MemfdCreate("waycore-keymap", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("xkb: memfd_create failed: %w", err)
	}
	f := os.NewFile(uintptr(fd), "waycore-keymap")

	// The keymap string must be NUL-terminated for clients that read it
	// as a C string, matching xkb_keymap_get_as_string's own output.
	data := append([]byte(k.str), 0)
	if err := f.Truncate(int64(len(data))); err != nil {
		f.Close()
		return nil, fmt.Errorf("xkb: truncate memfd failed: %w", err)
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("xkb: write memfd failed: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("xkb: rewind memfd failed: %w", err)
	}
	return f, nil
}
