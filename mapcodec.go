package mapcodec

import (
	"fmt"

	"github.com/WarFrontIO/MapCodec/internal/bitio"
	"github.com/WarFrontIO/MapCodec/internal/frame"
	"github.com/WarFrontIO/MapCodec/internal/line"
	"github.com/WarFrontIO/MapCodec/internal/zone"
)

// MinimumVersion and CurrentVersion bound the version field a decoder will
// accept. Both are 0 today; Encode always writes CurrentVersion.
const (
	MinimumVersion = 0
	CurrentVersion = 0
)

// Encode compresses m into a bit-packed byte stream.
func Encode(m RawMap, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	if err := m.validate(); err != nil {
		return nil, err
	}

	width, height := int(m.Width), int(m.Height)

	zones := zone.Build(width, height, m.Tiles)
	o.logger.Debug("mapcodec: zones built", "count", len(zones))

	linesL2R, linesT2B := line.Build(width, height, zones)
	o.logger.Debug("mapcodec: candidates built", "l2r", len(linesL2R), "t2b", len(linesT2B))

	palette := make([]frame.PaletteEntry, len(m.Types))
	for i, t := range m.Types {
		palette[i] = tileTypeToPaletteEntry(t)
	}

	w := bitio.NewWriter()
	w.WriteBits(4, CurrentVersion)
	w.WriteBits(16, uint32(m.Width))
	w.WriteBits(16, uint32(m.Height))
	w.WriteBits(8, 0) // reserved

	if err := frame.Encode(w, palette, width, linesL2R, linesT2B); err != nil {
		return nil, err
	}

	out := w.Finish()
	o.logger.Debug("mapcodec: encoded", "bytes", len(out))
	return out, nil
}

// Decode reconstructs a RawMap from a stream previously produced by Encode.
func Decode(data []byte, opts ...Option) (RawMap, error) {
	o := newOptions(opts)

	r := bitio.NewReader(data)

	version, err := r.ReadBits(4)
	if err != nil {
		return RawMap{}, err
	}
	if version < MinimumVersion || version > CurrentVersion {
		return RawMap{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	width32, err := r.ReadBits(16)
	if err != nil {
		return RawMap{}, err
	}
	height32, err := r.ReadBits(16)
	if err != nil {
		return RawMap{}, err
	}
	if _, err := r.ReadBits(8); err != nil { // reserved
		return RawMap{}, err
	}

	width, height := int(width32), int(height32)

	body, err := frame.Decode(r, width)
	if err != nil {
		return RawMap{}, err
	}
	o.logger.Debug("mapcodec: frame decoded", "lines", len(body.Lines), "direction", body.Direction)

	tiles := fill(width, height, body.Lines, body.Direction)

	types := make([]TileType, len(body.Palette))
	for i, e := range body.Palette {
		types[i] = paletteEntryToTileType(e)
	}

	return RawMap{
		Width:  uint16(width32),
		Height: uint16(height32),
		Tiles:  tiles,
		Types:  types,
	}, nil
}

func tileTypeToPaletteEntry(t TileType) frame.PaletteEntry {
	return frame.PaletteEntry{
		Name:          t.Name,
		ColorBase:     t.ColorBase,
		ColorVariant:  t.ColorVariant,
		Conquerable:   t.Conquerable,
		Navigable:     t.Navigable,
		ExpansionTime: t.ExpansionTime,
		ExpansionCost: t.ExpansionCost,
	}
}

func paletteEntryToTileType(e frame.PaletteEntry) TileType {
	return TileType{
		Name:          e.Name,
		ColorBase:     e.ColorBase,
		ColorVariant:  e.ColorVariant,
		Conquerable:   e.Conquerable,
		Navigable:     e.Navigable,
		ExpansionTime: e.ExpansionTime,
		ExpansionCost: e.ExpansionCost,
	}
}
