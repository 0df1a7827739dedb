package patchmatch

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

var snapshotMagic = [4]byte{'P', 'M', 'F', '1'}

// maxSnapshotCells bounds the field size accepted by Load.
const maxSnapshotCells = 1 << 28

// Save writes a zstd-compressed binary snapshot of f to w.
//
// Layout (little endian, before compression): magic "PMF1", uint32 height,
// uint32 width, then per cell in row-major order int32 dy, int32 dx and
// float64 score.
func (f *Field) Save(w io.Writer) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	bw := bufio.NewWriter(enc)

	var hdr [12]byte
	copy(hdr[:4], snapshotMagic[:])
	binary.LittleEndian.PutUint32(hdr[4:], uint32(f.Height))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(f.Width))
	if _, err := bw.Write(hdr[:]); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	var rec [16]byte
	for i, d := range f.disp {
		binary.LittleEndian.PutUint32(rec[0:], uint32(int32(d.DY)))
		binary.LittleEndian.PutUint32(rec[4:], uint32(int32(d.DX)))
		binary.LittleEndian.PutUint64(rec[8:], math.Float64bits(f.scores[i]))
		if _, err := bw.Write(rec[:]); err != nil {
			enc.Close()
			return fmt.Errorf("failed to write snapshot cell %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save.
func Load(r io.Reader) (*Field, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer dec.Close()

	var hdr [12]byte
	if _, err := io.ReadFull(dec, hdr[:]); err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	if [4]byte(hdr[:4]) != snapshotMagic {
		return nil, fmt.Errorf("not a field snapshot (magic %q)", hdr[:4])
	}
	height := int(binary.LittleEndian.Uint32(hdr[4:]))
	width := int(binary.LittleEndian.Uint32(hdr[8:]))
	if height <= 0 || width <= 0 || height*width > maxSnapshotCells {
		return nil, fmt.Errorf("invalid snapshot dimensions %dx%d", height, width)
	}

	f := NewField(height, width)
	br := bufio.NewReader(dec)
	var rec [16]byte
	for i := range f.disp {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			return nil, fmt.Errorf("failed to read snapshot cell %d: %w", i, err)
		}
		f.disp[i] = Displacement{
			DY: int(int32(binary.LittleEndian.Uint32(rec[0:]))),
			DX: int(int32(binary.LittleEndian.Uint32(rec[4:]))),
		}
		f.scores[i] = math.Float64frombits(binary.LittleEndian.Uint64(rec[8:]))
	}
	return f, nil
}
