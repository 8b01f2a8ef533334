package layout

import "github.com/jask/mindmap/internal/graph"

const (
	MinZoom = 0.1
	MaxZoom = 4.0
)

// Viewport is the view transform: translate by (X, Y) after scaling by K.
// It never touches simulation coordinates.
type Viewport struct {
	X, Y, K float64
}

// Identity returns the untransformed viewport.
func Identity() Viewport { return Viewport{K: 1} }

// Apply maps a world point to view coordinates.
func (v Viewport) Apply(p graph.Point) graph.Point {
	return graph.Point{X: p.X*v.K + v.X, Y: p.Y*v.K + v.Y}
}

// Invert maps a view point back to world coordinates.
func (v Viewport) Invert(p graph.Point) graph.Point {
	return graph.Point{X: (p.X - v.X) / v.K, Y: (p.Y - v.Y) / v.K}
}

// ZoomAt scales by factor, clamped to [MinZoom, MaxZoom], keeping the world
// point under anchor (view coordinates) fixed.
func (v *Viewport) ZoomAt(factor float64, anchor graph.Point) {
	world := v.Invert(anchor)
	v.K = clampZoom(v.K * factor)
	v.X = anchor.X - world.X*v.K
	v.Y = anchor.Y - world.Y*v.K
}

// Pan translates the view.
func (v *Viewport) Pan(dx, dy float64) {
	v.X += dx
	v.Y += dy
}

// CenterOn moves the view so world point p sits at the view origin.
func (v *Viewport) CenterOn(p graph.Point) {
	v.X = -p.X * v.K
	v.Y = -p.Y * v.K
}

func clampZoom(k float64) float64 {
	switch {
	case k < MinZoom:
		return MinZoom
	case k > MaxZoom:
		return MaxZoom
	}
	return k
}
