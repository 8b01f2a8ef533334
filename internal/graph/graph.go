// Package graph holds the explored mind map: nodes, parent edges, the path
// history and the per-node expansion state.
//
// Growth is tree-shaped. Every non-root node has exactly one edge, pointing
// from the node to its parent, and expansion never reconnects to an existing
// node even when labels match.
package graph

// Point is a position in simulation coordinates.
type Point struct {
	X, Y float64
}

// Node is a single word placed in the map.
type Node struct {
	ID       string
	Label    string
	Depth    int
	ParentID string
	// Initial, when set, is where the layout should first place the node.
	Initial *Point
}

// IsRoot reports whether n is the seed word.
func (n Node) IsRoot() bool { return n.Depth == 0 }

// Edge links a child (Source) to its parent (Target).
type Edge struct {
	Source string
	Target string
}

// Graph is an ordered node list plus edges. Order is insertion order.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Empty reports whether the graph has no nodes.
func (g Graph) Empty() bool { return len(g.Nodes) == 0 }

func (g Graph) clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	for i := range out.Nodes {
		if p := out.Nodes[i].Initial; p != nil {
			cp := *p
			out.Nodes[i].Initial = &cp
		}
	}
	return out
}

// ExpansionState tracks a node through Unexpanded -> Pending -> Expanded.
type ExpansionState int

const (
	Unexpanded ExpansionState = iota
	Pending
	Expanded
)

func (s ExpansionState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Expanded:
		return "expanded"
	default:
		return "unexpanded"
	}
}
