package mapedit

import "github.com/paulmach/orb"

// Viewport is a pure, reentrant projection between geographic coordinates
// and the projected (screen) coordinate space geometric actions operate in.
// An implementation must round-trip Project/Unproject to within floating
// point tolerance for any point within the viewport's extent.
type Viewport interface {
	// Project maps a geographic point to projected (screen) coordinates.
	Project(lonLat orb.Point) orb.Point
	// Unproject maps a projected (screen) point back to geographic
	// coordinates.
	Unproject(screen orb.Point) orb.Point
	// WorldPoint maps a geographic point to world-pixel coordinates, used
	// for computing bounding boxes at a fixed zoom level independent of the
	// current viewport pan/zoom.
	WorldPoint(lonLat orb.Point) orb.Point
}
