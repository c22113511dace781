package snapshot

import (
	"bytes"
	"encoding/binary"
	"io"
)

// lengthPrefixSize is the width of the uint64 payload-length header
// written before the serialized tree.
const lengthPrefixSize = 8

// Store is a memory-mapped snapshot file holding one length-prefixed
// payload, typically the output of (*kdtree.Tree).Serialize. Keeping the
// store decoupled from the kdtree package lets either evolve independently:
// Store only knows about length-prefixed byte payloads.
type Store struct {
	mf *mmapFile
}

// Open opens or creates the snapshot file at path. initialSize is a hint
// for the minimum file size to allocate up front; Save grows the mapping
// automatically if the payload doesn't fit.
func Open(path string, initialSize int64) (*Store, error) {
	if initialSize < lengthPrefixSize {
		initialSize = lengthPrefixSize
	}
	mf, err := openMmapFile(path, initialSize)
	if err != nil {
		return nil, err
	}
	return &Store{mf: mf}, nil
}

// Save writes a tree's serialized form into the store, growing the
// backing file if needed, and syncs it to disk. write is expected to be a
// tree's Serialize method, taking an io.Writer.
func (s *Store) Save(write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}

	payload := buf.Bytes()
	needed := int64(lengthPrefixSize + len(payload))
	if needed > s.mf.Size() {
		if err := s.mf.grow(needed); err != nil {
			return err
		}
	}

	header := s.mf.slice(0, lengthPrefixSize)
	binary.LittleEndian.PutUint64(header, uint64(len(payload)))

	body := s.mf.slice(lengthPrefixSize, len(payload))
	copy(body, payload)

	return s.mf.sync()
}

// Load returns a reader over the stored payload, suitable for passing to
// a tree's Deserialize function.
func (s *Store) Load() (io.Reader, error) {
	header := s.mf.slice(0, lengthPrefixSize)
	if header == nil {
		return nil, io.ErrUnexpectedEOF
	}
	length := binary.LittleEndian.Uint64(header)

	body := s.mf.slice(lengthPrefixSize, int(length))
	if body == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return bytes.NewReader(body), nil
}

// Close unmaps and closes the underlying file.
func (s *Store) Close() error {
	return s.mf.close()
}
