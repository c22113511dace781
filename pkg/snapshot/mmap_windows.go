//go:build windows

package snapshot

import (
	"errors"
	"os"
	"reflect"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mmapHandle stores the Windows-specific handles backing a mapping.
type mmapHandle struct {
	file      *os.File
	mapHandle windows.Handle
}

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

	mapHandle, err := windows.CreateFileMapping(
		windows.Handle(f.Fd()), nil, windows.PAGE_READWRITE,
		uint32(size>>32), uint32(size&0xFFFFFFFF), nil)
	if err != nil {
		f.Close()
		return nil, err
	}

	addr, err := windows.MapViewOfFile(mapHandle, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(mapHandle)
		f.Close()
		return nil, err
	}

	var data []byte
	header := (*reflect.SliceHeader)(unsafe.Pointer(&data))
	header.Data = addr
	header.Len = int(size)
	header.Cap = int(size)

	return &mmapFile{
		file: &mmapHandle{file: f, mapHandle: mapHandle},
		data: data,
		size: size,
	}, nil
}

func (m *mmapFile) sync() error {
	if len(m.data) == 0 {
		return nil
	}
	return windows.FlushViewOfFile(uintptr(unsafe.Pointer(&m.data[0])), uintptr(len(m.data)))
}

func (m *mmapFile) grow(newSize int64) error {
	if newSize <= m.size {
		return nil
	}

	handle := m.file.(*mmapHandle)

	if len(m.data) > 0 {
		if err := windows.FlushViewOfFile(uintptr(unsafe.Pointer(&m.data[0])), uintptr(len(m.data))); err != nil {
			return err
		}
		if err := windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&m.data[0]))); err != nil {
			return err
		}
	}

	if err := windows.CloseHandle(handle.mapHandle); err != nil {
		return err
	}
	if err := handle.file.Truncate(newSize); err != nil {
		return err
	}

	mapHandle, err := windows.CreateFileMapping(
		windows.Handle(handle.file.Fd()), nil, windows.PAGE_READWRITE,
		uint32(newSize>>32), uint32(newSize&0xFFFFFFFF), nil)
	if err != nil {
		return err
	}

	addr, err := windows.MapViewOfFile(mapHandle, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(newSize))
	if err != nil {
		windows.CloseHandle(mapHandle)
		return err
	}

	var data []byte
	header := (*reflect.SliceHeader)(unsafe.Pointer(&data))
	header.Data = addr
	header.Len = int(newSize)
	header.Cap = int(newSize)

	handle.mapHandle = mapHandle
	m.data = data
	m.size = newSize
	return nil
}

func (m *mmapFile) close() error {
	var firstErr error

	handle, ok := m.file.(*mmapHandle)
	if !ok || handle == nil {
		return nil
	}

	if len(m.data) > 0 {
		if err := windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&m.data[0]))); err != nil && firstErr == nil {
			firstErr = err
		}
		m.data = nil
	}
	if handle.mapHandle != 0 {
		if err := windows.CloseHandle(handle.mapHandle); err != nil && firstErr == nil {
			firstErr = err
		}
		handle.mapHandle = 0
	}
	if handle.file != nil {
		if err := handle.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		handle.file = nil
	}
	m.file = nil
	return firstErr
}
