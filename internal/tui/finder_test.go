package tui

import (
	"slices"
	"testing"

	"github.com/jask/mindmap/internal/graph"
)

func nodesOf(labels ...string) graph.Graph {
	var g graph.Graph
	for i, l := range labels {
		g.Nodes = append(g.Nodes, graph.Node{ID: graph.RootID(l), Label: l, Depth: min(i, 1)})
	}
	return g
}

func rankedLabels(g graph.Graph, q string, limit int) []string {
	var out []string
	for _, n := range rankNodes(g, q, limit) {
		out = append(out, n.Label)
	}
	return out
}

func TestRankNodes(t *testing.T) {
	g := nodesOf("Ocean", "Wavelength", "Tidal Wave", "Wave", "Whale")
	cases := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"tiers", "wave", 0, []string{"Wave", "Wavelength", "Tidal Wave", "Whale", "Ocean"}},
		{"limit", "wave", 2, []string{"Wave", "Wavelength"}},
		{"typo", "ocaen", 1, []string{"Ocean"}},
		{"blank", "   ", 5, nil},
	}
	for _, c := range cases {
		if got := rankedLabels(g, c.query, c.limit); !slices.Equal(got, c.want) {
			t.Errorf("%s: rankNodes(%q) = %v, want %v", c.name, c.query, got, c.want)
		}
	}
}

func TestRankNodesEmptyGraph(t *testing.T) {
	if got := rankNodes(graph.Graph{}, "wave", 5); got != nil {
		t.Fatalf("rankNodes on empty graph = %v", got)
	}
}
