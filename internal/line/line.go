// Package line computes the short intra-zone paths between a zone's border
// points and greedily stitches them into the short chains ("segments") that
// the frame encoder emits as lines.
package line

import (
	"sort"

	"github.com/WarFrontIO/MapCodec/internal/zone"
)

// maxBFSSteps bounds the short-path search per spec.md §4.3.1: a path of
// more than 8 steps is never considered as a stitching candidate.
const maxBFSSteps = 8

// maxSegmentLen is the largest segment the wire format can address in a
// single line record (a 8-bit lengthMinus1 field).
const maxSegmentLen = 256

// chunkSize is the side length of the square chunk used for positional
// compression (spec.md §4.3.4 and §4.4).
const chunkSize = 32

// Segment is a candidate line: a chain of 4-adjacent cells lying entirely
// within one zone.
type Segment struct {
	TypeIndex uint16
	Cells     []int
}

// Build computes, per zone, the greedy-stitched segment chains for both
// border flavors and returns the two whole-map candidate sets in emission
// order (grouped and sorted by starting chunk, per spec.md §4.3.4).
func Build(width, height int, zones []*zone.Zone) (linesL2R, linesT2B []Segment) {
	for _, z := range zones {
		linesL2R = append(linesL2R, stitch(width, height, z, z.LeftBorder, z.LeftBorderSet)...)
		linesT2B = append(linesT2B, stitch(width, height, z, z.TopBorder, z.TopBorderSet)...)
	}
	SortByChunk(width, linesL2R)
	SortByChunk(width, linesT2B)
	return linesL2R, linesT2B
}

// connection is a candidate stitch between two border points, discovered by
// BFS from the border-list index "from" to the lower-index border-list
// point "to".
type connection struct {
	from, to int
	path     []int // intermediate cells, ordered from "from" to "to"
}

// stitch runs §4.3.1's short-path search and §4.3.2's greedy stitching for
// a single zone and a single border flavor (left or top).
func stitch(width, height int, z *zone.Zone, border []int, borderSet map[int]struct{}) []Segment {
	if len(border) == 0 {
		return nil
	}

	borderIndex := make(map[int]int, len(border))
	for i, cell := range border {
		borderIndex[cell] = i
	}

	buckets := buildConnectionBuckets(width, height, z, border, borderIndex)

	degree := make([]int, len(border))
	segmentOf := make([]int, len(border))
	for i := range segmentOf {
		segmentOf[i] = -1
	}
	var segments [][]int

	for _, bucket := range buckets {
		for _, c := range bucket {
			if degree[c.from] >= 2 || degree[c.to] >= 2 {
				continue
			}
			a, b := border[c.from], border[c.to]

			switch {
			case segmentOf[c.from] < 0 && segmentOf[c.to] < 0:
				chain := make([]int, 0, len(c.path)+2)
				chain = append(chain, a)
				chain = append(chain, c.path...)
				chain = append(chain, b)
				segmentOf[c.from] = len(segments)
				segmentOf[c.to] = len(segments)
				segments = append(segments, chain)

			case segmentOf[c.from] < 0:
				slot := segmentOf[c.to]
				segments[slot] = attachNewEnd(segments[slot], b, c.path, a)
				segmentOf[c.from] = slot

			case segmentOf[c.to] < 0:
				slot := segmentOf[c.from]
				segments[slot] = attachNewEnd(segments[slot], a, reversed(c.path), b)
				segmentOf[c.to] = slot

			case segmentOf[c.from] == segmentOf[c.to]:
				continue // would close a cycle

			default:
				slotA, slotB := segmentOf[c.from], segmentOf[c.to]
				merged := splice(segments[slotA], a, c.path, b, segments[slotB])
				segments[slotA] = merged
				segments[slotB] = nil
				for i, s := range segmentOf {
					if s == slotB {
						segmentOf[i] = slotA
					}
				}
			}

			degree[c.from]++
			degree[c.to]++
		}
	}

	for i, d := range degree {
		if d == 0 {
			segments = append(segments, []int{border[i]})
		}
	}

	result := make([]Segment, 0, len(segments))
	for _, s := range segments {
		if len(s) == 0 {
			continue
		}
		result = append(result, cropSegments(z.TypeIndex, s)...)
	}
	return result
}

// buildConnectionBuckets runs the bounded BFS of spec.md §4.3.1 from every
// border point and buckets the resulting connections by path distance
// (1..maxBFSSteps), in ascending order, preserving discovery order within
// each bucket.
func buildConnectionBuckets(width, height int, z *zone.Zone, border []int, borderIndex map[int]int) [maxBFSSteps][]connection {
	var buckets [maxBFSSteps][]connection

	for fromIdx, start := range border {
		dist := map[int]int{start: 0}
		parent := map[int]int{}
		queue := []int{start}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			d := dist[cur]
			if d >= maxBFSSteps {
				continue
			}

			for _, next := range neighbors4(width, height, cur) {
				if z.CellMap[next] != z.ID {
					continue
				}
				if _, seen := dist[next]; seen {
					continue
				}
				nextDist := d + 1
				dist[next] = nextDist
				parent[next] = cur
				queue = append(queue, next)

				if toIdx, ok := borderIndex[next]; ok && toIdx < fromIdx {
					path := reconstructPath(parent, start, next)
					buckets[nextDist-1] = append(buckets[nextDist-1], connection{from: fromIdx, to: toIdx, path: path})
				}
			}
		}
	}

	return buckets
}

// reconstructPath walks parent pointers from end back to start and returns
// the intermediate cells strictly between them, ordered start -> end.
func reconstructPath(parent map[int]int, start, end int) []int {
	full := []int{end}
	for cur := end; cur != start; {
		cur = parent[cur]
		full = append(full, cur)
	}
	for i, j := 0, len(full)-1; i < j; i, j = i+1, j-1 {
		full[i], full[j] = full[j], full[i]
	}
	if len(full) <= 2 {
		return nil
	}
	return full[1 : len(full)-1]
}

func neighbors4(width, height, cell int) []int {
	x, y := cell%width, cell/width
	var out []int
	if x > 0 {
		out = append(out, cell-1)
	}
	if x < width-1 {
		out = append(out, cell+1)
	}
	if y > 0 {
		out = append(out, cell-width)
	}
	if y < height-1 {
		out = append(out, cell+width)
	}
	return out
}

// attachNewEnd attaches a new endpoint `newCell` onto whichever end of seg
// currently equals existingCell. `path` holds the intermediate cells ordered
// from newCell to existingCell.
func attachNewEnd(seg []int, existingCell int, path []int, newCell int) []int {
	if seg[len(seg)-1] == existingCell {
		out := make([]int, 0, len(seg)+len(path)+1)
		out = append(out, seg...)
		out = append(out, reversed(path)...)
		out = append(out, newCell)
		return out
	}
	out := make([]int, 0, len(seg)+len(path)+1)
	out = append(out, newCell)
	out = append(out, path...)
	out = append(out, seg...)
	return out
}

// splice joins segA and segB through path (ordered a -> path -> b), where a
// is an endpoint of segA and b is an endpoint of segB, choosing whichever
// reversal keeps the concatenation a valid 4-step chain.
func splice(segA []int, a int, path []int, b int, segB []int) []int {
	aIsTail := segA[len(segA)-1] == a
	bIsHead := segB[0] == b

	orientedA := segA
	if !aIsTail {
		orientedA = reversed(segA)
	}
	orientedB := segB
	if !bIsHead {
		orientedB = reversed(segB)
	}

	out := make([]int, 0, len(segA)+len(path)+len(segB))
	out = append(out, orientedA...)
	out = append(out, path...)
	out = append(out, orientedB...)
	return out
}

func reversed(s []int) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// cropSegments implements spec.md §4.3.3's single-pass crop: a segment
// longer than maxSegmentLen is split once into a head of exactly
// maxSegmentLen cells and a tail segment holding the remainder, which is
// not itself re-cropped.
func cropSegments(typeIndex uint16, cells []int) []Segment {
	if len(cells) <= maxSegmentLen {
		return []Segment{{TypeIndex: typeIndex, Cells: cells}}
	}
	return []Segment{
		{TypeIndex: typeIndex, Cells: cells[:maxSegmentLen]},
		{TypeIndex: typeIndex, Cells: cells[maxSegmentLen:]},
	}
}

// ChunkWidth returns the number of 32x32 chunks spanning the map's width.
func ChunkWidth(width int) int {
	return (width + chunkSize - 1) / chunkSize
}

// ChunkCount returns the total number of 32x32 chunks tiling width x height.
func ChunkCount(width, height int) int {
	chunkHeight := (height + chunkSize - 1) / chunkSize
	return ChunkWidth(width) * chunkHeight
}

// ChunkID returns the row-major chunk id of the chunk containing cell.
func ChunkID(width, cell int) int {
	x, y := cell%width, cell/width
	return (y/chunkSize)*ChunkWidth(width) + x/chunkSize
}

// SortByChunk stably sorts segments by the chunk id of their first cell.
func SortByChunk(width int, segments []Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return ChunkID(width, segments[i].Cells[0]) < ChunkID(width, segments[j].Cells[0])
	})
}

// Cost computes the candidate-set cost of spec.md §4.3.4, used to choose
// between the left-to-right and top-to-bottom candidate sets.
func Cost(width int, segments []Segment, typeBits int) int {
	total := 0
	prevChunk := 0
	for _, s := range segments {
		chunkID := ChunkID(width, s.Cells[0])
		total += (len(s.Cells)-1)*2 + 20 + typeBits + (chunkID - prevChunk)
		prevChunk = chunkID
	}
	return total
}
