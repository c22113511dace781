//go:build unix || darwin || linux || freebsd || openbsd || netbsd

package snapshot

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// openMmapFile opens or creates the snapshot file at path, extending it to
// initialSize if it is smaller (0 leaves an existing file's size alone).
func openMmapFile(path string, initialSize int64) (*mmapFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	size := stat.Size()
	if initialSize > size {
		if err := f.Truncate(initialSize); err != nil {
			f.Close()
			return nil, err
		}
		size = initialSize
	}

	if size == 0 {
		f.Close()
		return nil, errors.New("snapshot: cannot map an empty file")
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &mmapFile{file: f, data: data, size: size}, nil
}

func (m *mmapFile) sync() error {
	return unix.Msync(m.data, unix.MS_SYNC)
}

// grow extends the backing file to newSize and remaps it. A no-op if
// newSize does not exceed the current size.
func (m *mmapFile) grow(newSize int64) error {
	if newSize <= m.size {
		return nil
	}

	if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
		return err
	}
	if err := syscall.Munmap(m.data); err != nil {
		return err
	}

	f := m.file.(*os.File)
	if err := f.Truncate(newSize); err != nil {
		return err
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(newSize),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return err
	}

	m.data = data
	m.size = newSize
	return nil
}

func (m *mmapFile) close() error {
	var firstErr error

	if m.data != nil {
		if err := syscall.Munmap(m.data); err != nil && firstErr == nil {
			firstErr = err
		}
		m.data = nil
	}

	if m.file != nil {
		f := m.file.(*os.File)
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.file = nil
	}

	return firstErr
}
