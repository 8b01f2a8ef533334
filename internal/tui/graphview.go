package tui

import (
	"math"

	"github.com/charmbracelet/x/ansi"

	"github.com/jask/mindmap/internal/graph"
	"github.com/jask/mindmap/internal/layout"
)

// World units covered by one terminal cell. Cells are roughly twice as tall as wide.
const (
	cellW = 10.0
	cellH = 20.0

	nodeHeight   = 40.0
	boxedMinZoom = 0.75
	zoomStep     = 1.1
	panStep      = 4
)

// nodeWidth is the on-screen width of a node, in world units, for label.
// Label length is counted in terminal columns.
func nodeWidth(label string) float64 {
	return float64(10*ansi.StringWidth(label) + 40)
}

type hitBox struct {
	id             string
	x0, y0, x1, y1 int
}

func (h hitBox) contains(x, y int) bool {
	return x >= h.x0 && x < h.x1 && y >= h.y0 && y < h.y1
}

type dragState struct {
	id      string
	panning bool
	moved   bool
	lastX   int
	lastY   int
	grab    graph.Point
}

// GraphView draws the simulation onto a cell grid and turns pointer gestures
// into layout drags, pans and zooms.
type GraphView struct {
	sim      *layout.Simulation
	view     layout.Viewport
	width    int
	height   int
	selected string
	hits     []hitBox
	drag     *dragState
}

func NewGraphView(sim *layout.Simulation) *GraphView {
	return &GraphView{sim: sim, view: layout.Identity()}
}

// Resize sets the drawable area in cells.
func (v *GraphView) Resize(w, h int) {
	v.width, v.height = max(0, w), max(0, h)
}

func (v *GraphView) Size() (int, int) { return v.width, v.height }

// Reset drops the view transform, selection and any gesture in progress.
func (v *GraphView) Reset() {
	v.view = layout.Identity()
	v.selected = ""
	v.hits = nil
	v.drag = nil
}

func (v *GraphView) Viewport() layout.Viewport { return v.view }

func (v *GraphView) Selected() string { return v.selected }

func (v *GraphView) Select(id string) { v.selected = id }

// Cycle moves the selection delta steps through g's node order.
func (v *GraphView) Cycle(g graph.Graph, delta int) {
	n := len(g.Nodes)
	if n == 0 {
		v.selected = ""
		return
	}
	cur := -1
	for i, node := range g.Nodes {
		if node.ID == v.selected {
			cur = i
			break
		}
	}
	if cur < 0 {
		if delta < 0 {
			cur = 0
		} else {
			cur = n - 1
		}
	}
	v.selected = g.Nodes[((cur+delta)%n+n)%n].ID
}

// toView converts a cell to view coordinates, measured from the area centre.
func (v *GraphView) toView(col, row int) graph.Point {
	return graph.Point{
		X: (float64(col) + 0.5 - float64(v.width)/2) * cellW,
		Y: (float64(row) + 0.5 - float64(v.height)/2) * cellH,
	}
}

func (v *GraphView) toCell(p graph.Point) (int, int) {
	q := v.view.Apply(p)
	return int(math.Floor(float64(v.width)/2 + q.X/cellW)),
		int(math.Floor(float64(v.height)/2 + q.Y/cellH))
}

// WorldAt maps a cell to simulation coordinates.
func (v *GraphView) WorldAt(col, row int) graph.Point {
	return v.view.Invert(v.toView(col, row))
}

// ZoomAt zooms by factor around the cell under the pointer.
func (v *GraphView) ZoomAt(factor float64, col, row int) {
	v.view.ZoomAt(factor, v.toView(col, row))
}

// ZoomCenter zooms around the middle of the area.
func (v *GraphView) ZoomCenter(factor float64) {
	v.view.ZoomAt(factor, graph.Point{})
}

// PanCells shifts the view by whole cells.
func (v *GraphView) PanCells(dc, dr int) {
	v.view.Pan(float64(dc)*cellW, float64(dr)*cellH)
}

// CenterOn moves the view so node id sits in the middle.
func (v *GraphView) CenterOn(id string) bool {
	p, ok := v.sim.Position(id)
	if !ok {
		return false
	}
	v.view.CenterOn(p)
	return true
}

// ResetZoom returns to the identity transform.
func (v *GraphView) ResetZoom() {
	v.view = layout.Identity()
}

func (v *GraphView) boxSize(label string) (int, int) {
	k := v.view.K
	w := max(3, int(math.Round(nodeWidth(label)*k/cellW)))
	if k < boxedMinZoom {
		return w, 1
	}
	return w, max(3, int(math.Round(nodeHeight*k/cellH))+1)
}

// Render draws g at the simulation's current positions and records hit boxes.
func (v *GraphView) Render(g graph.Graph, state func(id string) graph.ExpansionState) string {
	c := newCanvas(v.width, v.height)
	type placed struct {
		node   graph.Node
		cx, cy int
	}
	centers := make(map[string]placed, len(g.Nodes))
	order := make([]placed, 0, len(g.Nodes))
	var sel *placed
	for _, n := range g.Nodes {
		p, ok := v.sim.Position(n.ID)
		if !ok {
			continue
		}
		cx, cy := v.toCell(p)
		pl := placed{node: n, cx: cx, cy: cy}
		centers[n.ID] = pl
		if n.ID == v.selected {
			sel = &pl
			continue
		}
		order = append(order, pl)
	}
	if sel != nil {
		order = append(order, *sel)
	}

	for _, e := range g.Edges {
		a, ok1 := centers[e.Source]
		b, ok2 := centers[e.Target]
		if ok1 && ok2 {
			c.line(a.cx, a.cy, b.cx, b.cy, styleEdge)
		}
	}

	v.hits = v.hits[:0]
	for _, pl := range order {
		w, h := v.boxSize(pl.node.Label)
		x0, y0 := pl.cx-w/2, pl.cy-h/2
		border, fill := v.nodeStyles(pl.node, state)
		c.box(x0, y0, w, h, pl.node.Label, border, fill)
		v.hits = append(v.hits, hitBox{id: pl.node.ID, x0: x0, y0: y0, x1: x0 + w, y1: y0 + h})
	}
	return c.render()
}

func (v *GraphView) nodeStyles(n graph.Node, state func(string) graph.ExpansionState) (styleID, styleID) {
	if n.IsRoot() {
		if n.ID == v.selected {
			return styleSelectedBorder, styleRootLabel
		}
		return styleRootBorder, styleRootLabel
	}
	switch {
	case n.ID == v.selected:
		return styleSelectedBorder, styleNodeLabel
	case state != nil && state(n.ID) == graph.Pending:
		return stylePendingBorder, styleNodeLabel
	case state != nil && state(n.ID) == graph.Expanded:
		return styleExpandedBorder, styleNodeLabel
	}
	return styleNodeBorder, styleNodeLabel
}

// HitTest returns the topmost node drawn at the cell in the last frame.
func (v *GraphView) HitTest(col, row int) (string, bool) {
	for i := len(v.hits) - 1; i >= 0; i-- {
		if v.hits[i].contains(col, row) {
			return v.hits[i].id, true
		}
	}
	return "", false
}

// Press begins a gesture: a node drag when a node is under the pointer, a pan otherwise.
func (v *GraphView) Press(col, row int) {
	d := &dragState{lastX: col, lastY: row}
	if id, ok := v.HitTest(col, row); ok {
		d.id = id
		v.selected = id
		if p, ok := v.sim.Position(id); ok {
			w := v.WorldAt(col, row)
			d.grab = graph.Point{X: p.X - w.X, Y: p.Y - w.Y}
		}
	} else {
		d.panning = true
	}
	v.drag = d
}

// Motion continues the gesture. The first motion of a node drag pins the node.
func (v *GraphView) Motion(col, row int) {
	d := v.drag
	if d == nil || (col == d.lastX && row == d.lastY) {
		return
	}
	if d.panning {
		v.PanCells(col-d.lastX, row-d.lastY)
	} else {
		if !d.moved {
			v.sim.DragStart(d.id)
		}
		w := v.WorldAt(col, row)
		v.sim.DragTo(d.id, graph.Point{X: w.X + d.grab.X, Y: w.Y + d.grab.Y})
	}
	d.moved = true
	d.lastX, d.lastY = col, row
}

// Release ends the gesture. A node press without motion is a click and its id
// is returned.
func (v *GraphView) Release() (string, bool) {
	d := v.drag
	v.drag = nil
	if d == nil || d.panning {
		return "", false
	}
	if d.moved {
		v.sim.DragEnd(d.id)
		return "", false
	}
	return d.id, true
}

// Dragging reports whether a gesture is in progress.
func (v *GraphView) Dragging() bool { return v.drag != nil }
