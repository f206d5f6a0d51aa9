// Package parallel provides the tile-based dispatch used by hosts of the
// texture-resolve stage.
//
// A draw is split into rectangular tiles that are resolved independently
// on a WorkerPool. Tiles are disjoint, so workers write their pixels
// without synchronization.
package parallel

import "image"

// Default tile size. 64x64 RGBA8 tiles are 16KB and fit in L1 cache.
const (
	TileWidth  = 64
	TileHeight = 64
)

// Tile is a rectangular region of a render target in pixel space.
// Edge tiles may be smaller than the requested tile size.
type Tile struct {
	// Col and Row are the tile's grid indices within its split.
	Col, Row int

	// Rect is the covered pixel rectangle.
	Rect image.Rectangle
}

// Width returns the tile width in pixels.
func (t Tile) Width() int { return t.Rect.Dx() }

// Height returns the tile height in pixels.
func (t Tile) Height() int { return t.Rect.Dy() }

// Pixels returns the number of pixels covered by the tile.
func (t Tile) Pixels() int { return t.Rect.Dx() * t.Rect.Dy() }

// SplitTiles divides r into tiles of at most tileW x tileH pixels, in
// row-major order. Non-positive tile sizes use TileWidth and TileHeight.
// Returns nil for an empty rectangle.
func SplitTiles(r image.Rectangle, tileW, tileH int) []Tile {
	r = r.Canon()
	if r.Empty() {
		return nil
	}
	if tileW <= 0 {
		tileW = TileWidth
	}
	if tileH <= 0 {
		tileH = TileHeight
	}

	cols := (r.Dx() + tileW - 1) / tileW
	rows := (r.Dy() + tileH - 1) / tileH

	tiles := make([]Tile, 0, cols*rows)
	for row := range rows {
		for col := range cols {
			minX := r.Min.X + col*tileW
			minY := r.Min.Y + row*tileH
			tiles = append(tiles, Tile{
				Col: col,
				Row: row,
				Rect: image.Rect(
					minX, minY,
					min(minX+tileW, r.Max.X), min(minY+tileH, r.Max.Y),
				),
			})
		}
	}
	return tiles
}
