package actions

import "github.com/paulmach/orb"

// identityViewport treats lon/lat as projected screen coordinates directly,
// enough to drive the geometric actions without a real projection.
type identityViewport struct{}

func (identityViewport) Project(p orb.Point) orb.Point    { return p }
func (identityViewport) Unproject(p orb.Point) orb.Point  { return p }
func (identityViewport) WorldPoint(p orb.Point) orb.Point { return p }
