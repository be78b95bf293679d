package layout

import "github.com/1broseidon/wintk/internal/geom"

// RegionKind names a part of a display work area.
type RegionKind string

const (
	RegionFull       RegionKind = "full"
	RegionLeftHalf   RegionKind = "left-half"
	RegionRightHalf  RegionKind = "right-half"
	RegionTopHalf    RegionKind = "top-half"
	RegionBottomHalf RegionKind = "bottom-half"
	RegionCustom     RegionKind = "custom"
	RegionCentered   RegionKind = "centered"
)

// Region selects where a top-level window goes on a display. Percent fields
// apply to RegionCustom only.
type Region struct {
	Kind          RegionKind
	XPercent      int
	YPercent      int
	WidthPercent  int
	HeightPercent int
}

// ApplyRegion maps region onto area. RegionCentered centers size in area
// and clamps it to the area. The result is never smaller than 1x1.
func ApplyRegion(area geom.Rect, region Region, size geom.Size) geom.Rect {
	r := area
	switch region.Kind {
	case RegionLeftHalf:
		r.Width = area.Width / 2
	case RegionRightHalf:
		r.X = area.X + area.Width/2
		r.Width = area.Width / 2
	case RegionTopHalf:
		r.Height = area.Height / 2
	case RegionBottomHalf:
		r.Y = area.Y + area.Height/2
		r.Height = area.Height / 2
	case RegionCustom:
		r.X = area.X + area.Width*region.XPercent/100
		r.Y = area.Y + area.Height*region.YPercent/100
		r.Width = area.Width * region.WidthPercent / 100
		r.Height = area.Height * region.HeightPercent / 100
	case RegionCentered:
		r.Width = min(size.Width, area.Width)
		r.Height = min(size.Height, area.Height)
		r.X = area.X + (area.Width-r.Width)/2
		r.Y = area.Y + (area.Height-r.Height)/2
	}
	r.Width = max(r.Width, 1)
	r.Height = max(r.Height, 1)
	return r
}
