package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/mindmap/internal/graph"
)

const maxMatches = 5

type match struct {
	node  graph.Node
	tier  int
	dist  int
	order int
}

// rankNodes orders g's nodes by how well their label matches query: exact
// matches first, then prefix, then substring, then by edit distance.
func rankNodes(g graph.Graph, query string, limit int) []graph.Node {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(g.Nodes) == 0 {
		return nil
	}
	matches := make([]match, 0, len(g.Nodes))
	for i, n := range g.Nodes {
		label := strings.ToLower(n.Label)
		m := match{node: n, order: i, dist: levenshtein.ComputeDistance(q, label)}
		switch {
		case label == q:
			m.tier = 0
		case strings.HasPrefix(label, q):
			m.tier = 1
		case strings.Contains(label, q):
			m.tier = 2
		default:
			m.tier = 3
		}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		return a.order < b.order
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]graph.Node, len(matches))
	for i, m := range matches {
		out[i] = m.node
	}
	return out
}
