// Package zone partitions a tile grid into maximal 4-connected regions of
// equal tile type ("zones") and records, for each zone, the border points
// needed to reconstruct it by directional fill.
package zone

// Zone is a maximal 4-connected region of cells sharing a tile type.
//
// CellMap is a single grid allocated by Build: it is shared across every
// Zone produced by the same Build call and lives as long as those Zones do.
type Zone struct {
	ID        uint16 // 1-based; matches CellMap entries for this zone's cells
	TypeIndex uint16
	CellMap   []uint16 // shared; 0 = unassigned, k = zone index k-1

	LeftBorder    []int
	LeftBorderSet map[int]struct{}

	TopBorder    []int
	TopBorderSet map[int]struct{}
}

// Build flood-fills the grid and returns one Zone per maximal 4-connected
// region of equal tile type, in row-major discovery order. The returned
// Zones all share the same CellMap.
func Build(width, height int, tiles []uint16) []*Zone {
	cellMap := make([]uint16, width*height)
	var zones []*Zone

	stack := make([]int, 0, 64)

	for start := 0; start < len(tiles); start++ {
		if cellMap[start] != 0 {
			continue
		}

		zoneID := uint16(len(zones) + 1)
		z := &Zone{
			ID:            zoneID,
			TypeIndex:     tiles[start],
			CellMap:       cellMap,
			LeftBorderSet: make(map[int]struct{}),
			TopBorderSet:  make(map[int]struct{}),
		}

		cellMap[start] = zoneID
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			x := i % width
			y := i / width

			// Left neighbor: same-type cells extend the fill; otherwise this
			// cell is a left-border point (also true at the map's left edge).
			if x > 0 && tiles[i-1] == z.TypeIndex {
				if cellMap[i-1] == 0 {
					cellMap[i-1] = zoneID
					stack = append(stack, i-1)
				}
			} else {
				z.addLeftBorder(i)
			}

			// Top neighbor: symmetric rule using the cell directly above.
			if y > 0 && tiles[i-width] == z.TypeIndex {
				if cellMap[i-width] == 0 {
					cellMap[i-width] = zoneID
					stack = append(stack, i-width)
				}
			} else {
				z.addTopBorder(i)
			}

			// Right and bottom neighbors are explored for fill only.
			if x < width-1 && tiles[i+1] == z.TypeIndex && cellMap[i+1] == 0 {
				cellMap[i+1] = zoneID
				stack = append(stack, i+1)
			}
			if y < height-1 && tiles[i+width] == z.TypeIndex && cellMap[i+width] == 0 {
				cellMap[i+width] = zoneID
				stack = append(stack, i+width)
			}
		}

		zones = append(zones, z)
	}

	return zones
}

func (z *Zone) addLeftBorder(cell int) {
	if _, ok := z.LeftBorderSet[cell]; ok {
		return
	}
	z.LeftBorderSet[cell] = struct{}{}
	z.LeftBorder = append(z.LeftBorder, cell)
}

func (z *Zone) addTopBorder(cell int) {
	if _, ok := z.TopBorderSet[cell]; ok {
		return
	}
	z.TopBorderSet[cell] = struct{}{}
	z.TopBorder = append(z.TopBorder, cell)
}
