//go:build linux

// Package oschunk implements §4.1's OS chunk provider: acquiring and
// releasing aligned memory regions from the operating system, with a
// best-effort huge-page path. Grounded on golang.org/x/sys/unix, the
// same dependency talyz-systemd_exporter and yaofei517-go's stdlib
// mirror both require for direct syscall access.
package oschunk

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// AllocAligned returns a region of size bytes whose base address is
// aligned to alignment, by over-mapping by alignment bytes and
// trimming both ends. huge requests the platform's huge-page backing;
// failure there silently falls back to a normal mapping.
func AllocAligned(size, alignment int, huge bool) ([]byte, error) {
	if huge {
		if b, err := allocHuge(size, alignment); err == nil {
			return b, nil
		}
		// fall through to the regular path on any huge-page failure
	}
	return allocAligned(size, alignment)
}

func allocAligned(size, alignment int) ([]byte, error) {
	over := size + alignment
	raw, err := unix.Mmap(-1, 0, over, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrap(err, "oschunk: mmap failed")
	}
	base := uintptr(ptrOf(raw))
	misalign := int(-base) & (alignment - 1)
	if misalign != 0 {
		if err := unix.Munmap(raw[:misalign]); err != nil {
			return nil, errors.Wrap(err, "oschunk: trim head failed")
		}
		raw = raw[misalign:]
	}
	if extra := len(raw) - size; extra > 0 {
		if err := unix.Munmap(raw[size:]); err != nil {
			return nil, errors.Wrap(err, "oschunk: trim tail failed")
		}
		raw = raw[:size]
	}
	return raw, nil
}

func allocHuge(size, alignment int) ([]byte, error) {
	raw, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_HUGETLB)
	if err != nil {
		return nil, errors.Wrap(err, "oschunk: huge-page mmap failed")
	}
	if uintptr(ptrOf(raw))&uintptr(alignment-1) != 0 {
		_ = unix.Munmap(raw)
		return nil, errors.New("oschunk: huge-page mapping was not aligned")
	}
	return raw, nil
}

// Free releases a region returned by AllocAligned.
func Free(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return errors.Wrap(unix.Munmap(b), "oschunk: munmap failed")
}

// Extend attempts an in-place growth of a mapping via mremap. It
// returns the new slice on success, or an error the caller should
// treat as "fall through to allocate-copy-free" per §4.1.
func Extend(b []byte, newSize int) ([]byte, error) {
	grown, err := unix.Mremap(b, newSize, 0)
	if err != nil {
		return nil, errors.Wrap(err, "oschunk: mremap grow failed")
	}
	return grown, nil
}

// Truncate shrinks a mapping in place via mremap.
func Truncate(b []byte, newSize int) ([]byte, error) {
	shrunk, err := unix.Mremap(b, newSize, 0)
	if err != nil {
		return nil, errors.Wrap(err, "oschunk: mremap shrink failed")
	}
	return shrunk, nil
}
