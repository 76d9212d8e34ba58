// Package mapcodec implements a lossless binary codec for 2D tile maps.
//
// A map is a rectangular grid where each cell references a tile type from a
// small palette. Encode partitions the grid into maximal same-type regions
// ("zones"), derives a minimal set of border points per zone, greedily
// stitches those border points into short intra-zone chains ("lines"), and
// writes a bit-packed stream framing the palette, the fill direction, and
// the line stream. Decode reverses the process exactly.
//
// Encode and Decode are pure, single-threaded functions: all intermediate
// structures are allocated on entry and released on return, so independent
// calls share no state.
package mapcodec
