// Package frame implements the bit-level container framed by the codec:
// palette compaction, the fill-direction bit, and the line stream, per
// spec.md §4.4. It is the only package that knows the wire format; the
// root package wraps it with the outer version/width/height header.
package frame

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/WarFrontIO/MapCodec/internal/bitio"
	"github.com/WarFrontIO/MapCodec/internal/line"
)

// ErrUnknownTileType is returned when a zone (equivalently, a segment)
// refers to a palette index that is not present in the supplied palette.
var ErrUnknownTileType = errors.New("frame: unknown tile type")

// Direction selects which directional sweep the decoder must run to turn
// placed anchors back into a full grid.
type Direction uint8

const (
	DirectionL2R Direction = 0
	DirectionT2B Direction = 1
)

// PaletteEntry mirrors the public TileType one field at a time, keeping
// this package's wire-format code decoupled from the root package's types
// (mirroring the teacher's HeaderMetadata.CopyFromHeader/CopyToHeader split
// between its spec.Header and its public HeaderMetadata).
type PaletteEntry struct {
	Name          string
	ColorBase     string
	ColorVariant  uint8
	Conquerable   bool
	Navigable     bool
	ExpansionTime uint8
	ExpansionCost uint8
}

const (
	nameMaxChars      = 32
	colorBaseMaxChars = 16
)

// Body is the decoded frame body: the original palette, the fill
// direction, and the reconstructed set of lines (with typeId already
// mapped back to original palette indices).
type Body struct {
	Palette   []PaletteEntry
	Direction Direction
	Lines     []line.Segment
}

// Encode writes the frame body: the chosen fill direction, the palette, the
// compaction bookkeeping needed to decode typeId fields, and the cheaper of
// the two line candidates.
func Encode(w *bitio.Writer, palette []PaletteEntry, width int, linesL2R, linesT2B []line.Segment) error {
	usedTypesL2R, remapL2R, err := compact(palette, linesL2R)
	if err != nil {
		return err
	}
	usedTypesT2B, remapT2B, err := compact(palette, linesT2B)
	if err != nil {
		return err
	}

	// Every zone contributes to both candidate sets, so the distinct set of
	// palette indices in use is the same size either way; only the
	// first-appearance order (and therefore the remap) can differ.
	typeBits := typeBitsFor(len(usedTypesL2R))

	costL2R := line.Cost(width, linesL2R, typeBits)
	costT2B := line.Cost(width, linesT2B, typeBits)

	direction := DirectionL2R
	chosen, remap, usedTypes := linesL2R, remapL2R, usedTypesL2R
	if costL2R > costT2B {
		direction = DirectionT2B
		chosen, remap, usedTypes = linesT2B, remapT2B, usedTypesT2B
	}

	w.WriteBool(direction == DirectionT2B)
	w.WriteBool(false) // reserved

	if err := writePalette(w, palette); err != nil {
		return err
	}

	w.WriteBits(16, uint32(len(usedTypes)))
	for _, originalIdx := range usedTypes {
		w.WriteBits(16, uint32(originalIdx))
	}

	w.WriteBits(32, uint32(len(chosen)))

	prevChunk := 0
	for _, seg := range chosen {
		chunkID := line.ChunkID(width, seg.Cells[0])
		writeUnary(w, chunkID-prevChunk)
		prevChunk = chunkID

		w.WriteBits(8, uint32(len(seg.Cells)-1))
		if typeBits > 0 {
			w.WriteBits(typeBits, uint32(remap[seg.TypeIndex]))
		}

		chunkWidth := line.ChunkWidth(width)
		localX := seg.Cells[0]%width - (chunkID%chunkWidth)*32
		localY := seg.Cells[0]/width - (chunkID/chunkWidth)*32
		w.WriteBits(10, uint32(localX+localY*32))

		for i := 1; i < len(seg.Cells); i++ {
			w.WriteBits(2, stepCode(width, seg.Cells[i-1], seg.Cells[i]))
		}
	}

	w.WriteBool(false)   // trailing reserved
	w.WriteBits(8, 0)    // trailing reserved
	return nil
}

// Decode reads a frame body previously written by Encode.
func Decode(r *bitio.Reader, width int) (*Body, error) {
	directionBit, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadBool(); err != nil { // reserved
		return nil, err
	}
	direction := DirectionL2R
	if directionBit {
		direction = DirectionT2B
	}

	palette, err := readPalette(r)
	if err != nil {
		return nil, err
	}

	usedCount, err := r.ReadBits(16)
	if err != nil {
		return nil, err
	}
	usedTypes := make([]int, usedCount)
	for i := range usedTypes {
		v, err := r.ReadBits(16)
		if err != nil {
			return nil, err
		}
		usedTypes[i] = int(v)
	}
	typeBits := typeBitsFor(int(usedCount))

	lineCount, err := r.ReadBits(32)
	if err != nil {
		return nil, err
	}

	chunkWidth := line.ChunkWidth(width)
	currentChunk := 0
	lines := make([]line.Segment, 0, lineCount)

	for i := uint32(0); i < lineCount; i++ {
		advance, err := readUnary(r)
		if err != nil {
			return nil, err
		}
		currentChunk += advance

		lengthMinus1, err := r.ReadBits(8)
		if err != nil {
			return nil, err
		}

		typeID := uint32(0)
		if typeBits > 0 {
			typeID, err = r.ReadBits(typeBits)
			if err != nil {
				return nil, err
			}
		}
		if int(typeID) >= len(usedTypes) {
			return nil, fmt.Errorf("%w: typeId %d", ErrUnknownTileType, typeID)
		}
		originalType := usedTypes[typeID]

		positionInChunk, err := r.ReadBits(10)
		if err != nil {
			return nil, err
		}

		chunkX := currentChunk % chunkWidth
		chunkY := currentChunk / chunkWidth
		localX := int(positionInChunk) % 32
		localY := int(positionInChunk) / 32
		absolute := localX + chunkX*32 + localY*width + chunkY*32*width

		cells := make([]int, lengthMinus1+1)
		cells[0] = absolute
		for step := uint32(0); step < lengthMinus1; step++ {
			code, err := r.ReadBits(2)
			if err != nil {
				return nil, err
			}
			cells[step+1] = applyStep(width, cells[step], code)
		}

		lines = append(lines, line.Segment{TypeIndex: uint16(originalType), Cells: cells})
	}

	if _, err := r.ReadBool(); err != nil { // trailing reserved
		return nil, err
	}
	if _, err := r.ReadBits(8); err != nil { // trailing reserved
		return nil, err
	}

	return &Body{Palette: palette, Direction: direction, Lines: lines}, nil
}

// compact builds the "subset of palette actually used" per spec.md §4.4 and
// the old-index-to-new-index remap for a candidate line set.
func compact(palette []PaletteEntry, segments []line.Segment) (usedTypes []int, remap map[uint16]int, err error) {
	remap = make(map[uint16]int)
	for _, seg := range segments {
		if int(seg.TypeIndex) >= len(palette) {
			return nil, nil, fmt.Errorf("%w: index %d", ErrUnknownTileType, seg.TypeIndex)
		}
		if _, ok := remap[seg.TypeIndex]; !ok {
			remap[seg.TypeIndex] = len(usedTypes)
			usedTypes = append(usedTypes, int(seg.TypeIndex))
		}
	}
	return usedTypes, remap, nil
}

// typeBitsFor returns ceil(log2(usedCount)), with the spec's explicit
// single-type special case of 0 bits.
func typeBitsFor(usedCount int) int {
	if usedCount <= 1 {
		return 0
	}
	return bits.Len(uint(usedCount - 1))
}

func writePalette(w *bitio.Writer, palette []PaletteEntry) error {
	w.WriteBits(16, uint32(len(palette)))
	for _, e := range palette {
		w.WriteBits(3, 0) // reserved
		if err := w.WriteString(nameMaxChars, e.Name); err != nil {
			return err
		}
		if err := w.WriteString(colorBaseMaxChars, e.ColorBase); err != nil {
			return err
		}
		w.WriteBits(4, uint32(e.ColorVariant))
		w.WriteBool(e.Conquerable)
		w.WriteBool(e.Navigable)
		w.WriteBits(8, uint32(e.ExpansionTime))
		w.WriteBits(8, uint32(e.ExpansionCost))
	}
	return nil
}

func readPalette(r *bitio.Reader) ([]PaletteEntry, error) {
	count, err := r.ReadBits(16)
	if err != nil {
		return nil, err
	}
	palette := make([]PaletteEntry, count)
	for i := range palette {
		if _, err := r.ReadBits(3); err != nil { // reserved
			return nil, err
		}
		name, err := r.ReadString(nameMaxChars)
		if err != nil {
			return nil, err
		}
		colorBase, err := r.ReadString(colorBaseMaxChars)
		if err != nil {
			return nil, err
		}
		colorVariant, err := r.ReadBits(4)
		if err != nil {
			return nil, err
		}
		conquerable, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		navigable, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		expansionTime, err := r.ReadBits(8)
		if err != nil {
			return nil, err
		}
		expansionCost, err := r.ReadBits(8)
		if err != nil {
			return nil, err
		}
		palette[i] = PaletteEntry{
			Name:          name,
			ColorBase:     colorBase,
			ColorVariant:  uint8(colorVariant),
			Conquerable:   conquerable,
			Navigable:     navigable,
			ExpansionTime: uint8(expansionTime),
			ExpansionCost: uint8(expansionCost),
		}
	}
	return palette, nil
}

// writeUnary writes n set bits followed by a terminating zero bit, the
// chunk-advance prefix of spec.md §4.4.
func writeUnary(w *bitio.Writer, n int) {
	for i := 0; i < n; i++ {
		w.WriteBool(true)
	}
	w.WriteBool(false)
}

func readUnary(r *bitio.Reader) (int, error) {
	n := 0
	for {
		b, err := r.ReadBool()
		if err != nil {
			return 0, err
		}
		if !b {
			return n, nil
		}
		n++
	}
}

// stepCode returns the 2-bit code for the 4-neighbor step from a to b.
func stepCode(width, a, b int) uint32 {
	switch b - a {
	case 1:
		return 0
	case -1:
		return 1
	case width:
		return 2
	case -width:
		return 3
	default:
		panic(fmt.Sprintf("frame: non-adjacent step %d -> %d", a, b))
	}
}

func applyStep(width, cell int, code uint32) int {
	switch code {
	case 0:
		return cell + 1
	case 1:
		return cell - 1
	case 2:
		return cell + width
	default:
		return cell - width
	}
}
