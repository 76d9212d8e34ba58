package line_test

import (
	"testing"

	"github.com/WarFrontIO/MapCodec/internal/line"
	"github.com/WarFrontIO/MapCodec/internal/zone"
	"github.com/stretchr/testify/require"
)

func TestBuildSingleZoneProducesOneSegmentPerFlavor(t *testing.T) {
	width, height := 4, 4
	tiles := make([]uint16, width*height)
	zones := zone.Build(width, height, tiles)
	require.Len(t, zones, 1)

	l2r, t2b := line.Build(width, height, zones)
	require.Len(t, l2r, 1)
	require.Len(t, t2b, 1)

	for _, seg := range l2r {
		requireAdjacentChain(t, width, seg.Cells)
	}
	for _, seg := range t2b {
		requireAdjacentChain(t, width, seg.Cells)
	}
}

func TestBuildSegmentsStayWithinOneZone(t *testing.T) {
	width, height := 5, 3
	tiles := []uint16{
		0, 0, 1, 1, 1,
		0, 0, 1, 1, 1,
		2, 2, 2, 1, 1,
	}
	zones := zone.Build(width, height, tiles)
	l2r, t2b := line.Build(width, height, zones)

	cellZone := make(map[int]uint16, width*height)
	for _, z := range zones {
		for i, id := range z.CellMap {
			if id == z.ID {
				cellZone[i] = z.TypeIndex
			}
		}
	}

	for _, seg := range append(append([]line.Segment{}, l2r...), t2b...) {
		for _, cell := range seg.Cells {
			require.Equal(t, seg.TypeIndex, cellZone[cell])
		}
	}
}

func TestBuildCrossShapedZoneStaysAdjacent(t *testing.T) {
	// A '+' shaped zone (a vertical arm crossing a horizontal arm) gives
	// its border points a branching connection graph, forcing the greedy
	// stitcher through "only to new" attaches with a multi-cell path —
	// the orientation bug this guards against only shows up once a
	// segment's existing endpoint is the stitch's "from" point, which a
	// straight or single-point zone never exercises.
	width, height := 5, 5
	tiles := make([]uint16, width*height)
	for i := range tiles {
		tiles[i] = 1
	}
	for y := 0; y < height; y++ {
		tiles[2+y*width] = 0 // vertical arm, x=2
	}
	for x := 0; x < width; x++ {
		tiles[x+2*width] = 0 // horizontal arm, y=2
	}

	zones := zone.Build(width, height, tiles)

	var cross *zone.Zone
	for _, z := range zones {
		if z.TypeIndex == 0 {
			cross = z
		}
	}
	require.NotNil(t, cross)

	l2r, t2b := line.Build(width, height, zones)
	for _, seg := range append(append([]line.Segment{}, l2r...), t2b...) {
		if seg.TypeIndex != 0 {
			continue
		}
		requireAdjacentChain(t, width, seg.Cells)
	}
}

func TestSortByChunkIsStableAscending(t *testing.T) {
	width := 70 // three chunks wide (ChunkWidth rounds up)
	segs := []line.Segment{
		{TypeIndex: 0, Cells: []int{40}},
		{TypeIndex: 0, Cells: []int{5}},
		{TypeIndex: 0, Cells: []int{6}},
	}
	line.SortByChunk(width, segs)
	for i := 1; i < len(segs); i++ {
		require.LessOrEqual(t, line.ChunkID(width, segs[i-1].Cells[0]), line.ChunkID(width, segs[i].Cells[0]))
	}
	// Cells 5 and 6 share chunk 0 and must keep their input order.
	require.Equal(t, 5, segs[0].Cells[0])
	require.Equal(t, 6, segs[1].Cells[0])
}

func TestChunkIDRowMajor(t *testing.T) {
	width := 64 // 2 chunks wide
	require.Equal(t, 0, line.ChunkID(width, 0))
	require.Equal(t, 1, line.ChunkID(width, 32))
	require.Equal(t, 2, line.ChunkID(width, 32*width))
}

func TestCostPrefersFewerSegments(t *testing.T) {
	width := 8
	many := []line.Segment{{Cells: []int{0}}, {Cells: []int{1}}, {Cells: []int{2}}}
	one := []line.Segment{{Cells: []int{0, 1, 2}}}
	require.Less(t, line.Cost(width, one, 0), line.Cost(width, many, 0))
}

func requireAdjacentChain(t *testing.T, width int, cells []int) {
	t.Helper()
	for i := 1; i < len(cells); i++ {
		diff := cells[i] - cells[i-1]
		ok := diff == 1 || diff == -1 || diff == width || diff == -width
		require.Truef(t, ok, "cells %d -> %d are not 4-adjacent", cells[i-1], cells[i])
	}
}
