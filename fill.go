package mapcodec

import (
	"github.com/WarFrontIO/MapCodec/internal/frame"
	"github.com/WarFrontIO/MapCodec/internal/line"
)

// fill places every line's cells as anchors and then runs the directional
// sweep of spec.md §4.4's decode-side reconstruction, propagating each
// anchor's tile value until the next anchor (or row/column boundary).
func fill(width, height int, lines []line.Segment, direction frame.Direction) []uint16 {
	total := width * height
	tiles := make([]uint16, total)
	anchor := make([]bool, total)

	for _, seg := range lines {
		for _, cell := range seg.Cells {
			tiles[cell] = seg.TypeIndex
			anchor[cell] = true
		}
	}

	if direction == frame.DirectionL2R {
		var current uint16
		for i := 0; i < total; i++ {
			if anchor[i] {
				current = tiles[i]
			}
			tiles[i] = current
		}
		return tiles
	}

	// T2B: column-major, wrapping from the bottom of a column to the top of
	// the next. Per spec.md §4.4 and §9, this sweep deliberately stops one
	// cell short of the full grid; the last cell must come from an anchor.
	var current uint16
	i := 0
	for n := 0; n < total-1; n++ {
		if anchor[i] {
			current = tiles[i]
		}
		tiles[i] = current
		next := i + width
		if next >= total {
			next = (i + 1) % width
		}
		i = next
	}
	return tiles
}
