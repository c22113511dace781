// pkg/kdtree/serialize.go
package kdtree

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"kdtree/pkg/encoding"
)

var (
	ErrInvalidMagic   = errors.New("kdtree: invalid magic number")
	ErrInvalidVersion = errors.New("kdtree: unsupported version")
)

const (
	treeMagic   uint32 = 0x4b445442 // "KDTB"
	treeVersion uint32 = 1
)

// Header layout:
// [0-3]   Magic
// [4-7]   Version
// [8]     Flags (bit 0: coordinates are float64 rather than float32)
// [9-12]  Dimension
// [13-16] BucketSize
// [17-24] Size (total item count)
// [25-32] RootIndex, widened to 8 bytes
// [33-40] Stem count
// [41-48] Leaf count
const headerSize = 49

// Serialize writes the tree's structure and contents to w: a fixed header
// followed by the stem arena, then the leaf arena. Leaf entry counts are
// varint-encoded since bucket occupancy is usually far below BucketSize;
// everything else is fixed-width little-endian.
func (t *Tree[A, Item]) Serialize(w io.Writer) error {
	floatWidth := coordWidth[A]()

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:4], treeMagic)
	binary.LittleEndian.PutUint32(header[4:8], treeVersion)
	if floatWidth == 8 {
		header[8] = 0x01
	}
	binary.LittleEndian.PutUint32(header[9:13], uint32(t.config.Dimension))
	binary.LittleEndian.PutUint32(header[13:17], uint32(t.config.BucketSize))
	binary.LittleEndian.PutUint64(header[17:25], t.size)
	binary.LittleEndian.PutUint64(header[25:33], uint64(t.rootIndex))
	binary.LittleEndian.PutUint64(header[33:41], uint64(len(t.stems)))
	binary.LittleEndian.PutUint64(header[41:49], uint64(len(t.leaves)))
	if _, err := w.Write(header); err != nil {
		return err
	}

	stemBuf := make([]byte, floatWidth+8)
	for _, stem := range t.stems {
		putCoord(stemBuf[:floatWidth], stem.splitVal)
		binary.LittleEndian.PutUint32(stemBuf[floatWidth:floatWidth+4], stem.left)
		binary.LittleEndian.PutUint32(stemBuf[floatWidth+4:floatWidth+8], stem.right)
		if _, err := w.Write(stemBuf); err != nil {
			return err
		}
	}

	varintBuf := make([]byte, 9)
	itemBuf := make([]byte, 8)
	coordBuf := make([]byte, floatWidth)
	for _, leaf := range t.leaves {
		n := encoding.PutVarint(varintBuf, uint64(leaf.size))
		if _, err := w.Write(varintBuf[:n]); err != nil {
			return err
		}
		for i := 0; i < leaf.size; i++ {
			for _, c := range leaf.pointAt(i, t.config.Dimension) {
				putCoord(coordBuf, c)
				if _, err := w.Write(coordBuf); err != nil {
					return err
				}
			}
			binary.LittleEndian.PutUint64(itemBuf, uint64(int64(leaf.items[i])))
			if _, err := w.Write(itemBuf); err != nil {
				return err
			}
		}
	}

	return nil
}

// Deserialize reads a tree previously written by Serialize. The caller's
// type parameters must match the ones the tree was serialized with;
// mismatched coordinate width is rejected, mismatched Item width is not
// detectable and is the caller's responsibility.
func Deserialize[A Float, Item ItemID](r io.Reader) (*Tree[A, Item], error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	if binary.LittleEndian.Uint32(header[0:4]) != treeMagic {
		return nil, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(header[4:8]) != treeVersion {
		return nil, ErrInvalidVersion
	}

	floatWidth := coordWidth[A]()
	storedIsFloat64 := header[8]&0x01 != 0
	if storedIsFloat64 != (floatWidth == 8) {
		return nil, errors.New("kdtree: coordinate width mismatch between stored tree and Deserialize type parameter")
	}

	dimension := int(binary.LittleEndian.Uint32(header[9:13]))
	bucketSize := int(binary.LittleEndian.Uint32(header[13:17]))
	size := binary.LittleEndian.Uint64(header[17:25])
	rootIndex := uint32(binary.LittleEndian.Uint64(header[25:33]))
	stemCount := binary.LittleEndian.Uint64(header[33:41])
	leafCount := binary.LittleEndian.Uint64(header[41:49])

	t := &Tree[A, Item]{
		config:    Config{Dimension: dimension, BucketSize: bucketSize},
		size:      size,
		rootIndex: rootIndex,
		stems:     make([]stemNode[A], 0, stemCount),
		leaves:    make([]*leafNode[A, Item], 0, leafCount),
	}

	stemBuf := make([]byte, floatWidth+8)
	for i := uint64(0); i < stemCount; i++ {
		if _, err := io.ReadFull(r, stemBuf); err != nil {
			return nil, err
		}
		t.stems = append(t.stems, stemNode[A]{
			splitVal: getCoord[A](stemBuf[:floatWidth]),
			left:     binary.LittleEndian.Uint32(stemBuf[floatWidth : floatWidth+4]),
			right:    binary.LittleEndian.Uint32(stemBuf[floatWidth+4 : floatWidth+8]),
		})
	}

	varintBuf := make([]byte, 9)
	coordBuf := make([]byte, floatWidth)
	itemBuf := make([]byte, 8)
	for i := uint64(0); i < leafCount; i++ {
		leafSize, err := readVarint(r, varintBuf)
		if err != nil {
			return nil, err
		}
		leaf := newLeafNode[A, Item](bucketSize, dimension)
		for j := uint64(0); j < leafSize; j++ {
			point := make([]A, dimension)
			for d := 0; d < dimension; d++ {
				if _, err := io.ReadFull(r, coordBuf); err != nil {
					return nil, err
				}
				point[d] = getCoord[A](coordBuf)
			}
			if _, err := io.ReadFull(r, itemBuf); err != nil {
				return nil, err
			}
			item := Item(int64(binary.LittleEndian.Uint64(itemBuf)))
			leaf.append(point, item)
		}
		t.leaves = append(t.leaves, leaf)
	}

	return t, nil
}

// readVarint reads one SQLite-style varint from r a byte at a time. The
// encoding package only operates on in-memory buffers, so callers reading
// from an arbitrary io.Reader peel bytes off one at a time until the
// continuation bit clears.
func readVarint(r io.Reader, scratch []byte) (uint64, error) {
	one := make([]byte, 1)
	for i := 0; i < 9; i++ {
		if _, err := io.ReadFull(r, one); err != nil {
			return 0, err
		}
		scratch[i] = one[0]
		if i == 8 || one[0]&0x80 == 0 {
			v, _ := encoding.GetVarint(scratch[:i+1])
			return v, nil
		}
	}
	v, _ := encoding.GetVarint(scratch)
	return v, nil
}

func coordWidth[A Float]() int {
	var zero A
	if _, ok := any(zero).(float32); ok {
		return 4
	}
	return 8
}

func putCoord[A Float](buf []byte, v A) {
	if len(buf) == 4 {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
		return
	}
	binary.LittleEndian.PutUint64(buf, math.Float64bits(float64(v)))
}

func getCoord[A Float](buf []byte) A {
	if len(buf) == 4 {
		return A(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	}
	return A(math.Float64frombits(binary.LittleEndian.Uint64(buf)))
}
