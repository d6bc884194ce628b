package utils

import (
	"fmt"
	"image"
	"math"
)

// Aspect ratios the cropper locks to.
const (
	AspectProject = 4.0 / 3.0
	AspectClient  = 1.0
)

const (
	MinZoom = 1.0
	MaxZoom = 3.0
)

// Rect is a crop rectangle in source pixel coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Clamp intersects r with the source bounds. Bounds are taken relative to
// their own origin, so a decoded image with a non-zero Min still works.
// A zero or negative width or height is rejected, never normalized.
func (r Rect) Clamp(bounds image.Rectangle) (Rect, error) {
	if r.Empty() {
		return Rect{}, fmt.Errorf("%w: %s has no area", ErrInvalidCrop, r)
	}
	src := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	got := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height).Intersect(src)
	if got.Empty() {
		return Rect{}, fmt.Errorf("%w: %s outside %dx%d", ErrInvalidCrop, r, src.Dx(), src.Dy())
	}
	return Rect{X: got.Min.X, Y: got.Min.Y, Width: got.Dx(), Height: got.Dy()}, nil
}

// AreaFromViewport converts an interactive crop viewport into a source
// rectangle. At zoom 1 the area is the largest box of the given aspect that
// fits the source; higher zoom shrinks it around the pan point. panX and
// panY are in [-1, 1] where 0 centers the box and ±1 pushes it to an edge.
func AreaFromViewport(srcW, srcH int, aspect, zoom, panX, panY float64) Rect {
	if srcW <= 0 || srcH <= 0 {
		return Rect{}
	}
	if aspect <= 0 {
		aspect = float64(srcW) / float64(srcH)
	}
	zoom = clampFloat(zoom, MinZoom, MaxZoom)
	panX = clampFloat(panX, -1, 1)
	panY = clampFloat(panY, -1, 1)

	baseW, baseH := float64(srcW), float64(srcH)
	if baseW/baseH > aspect {
		baseW = baseH * aspect
	} else {
		baseH = baseW / aspect
	}

	w := math.Max(1, math.Round(baseW/zoom))
	h := math.Max(1, math.Round(baseH/zoom))
	slackX := float64(srcW) - w
	slackY := float64(srcH) - h

	return Rect{
		X:      int(math.Round(slackX / 2 * (1 + panX))),
		Y:      int(math.Round(slackY / 2 * (1 + panY))),
		Width:  int(w),
		Height: int(h),
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
