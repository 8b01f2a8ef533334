package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jask/mindmap/internal/graph"
)

var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	info   = color.New(color.FgCyan)
)

var relatedCmd = &cobra.Command{
	Use:   "related WORD",
	Short: "Print the words related to WORD",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = d.log.Sync() }()

		word := strings.TrimSpace(strings.Join(args, " "))
		if word == "" {
			return errors.New("word must not be blank")
		}
		printRelated(cmd.OutOrStdout(), word, d.rel.Related(cmd.Context(), word))
		return nil
	},
}

var (
	treeDepth         int
	treeMaxExpansions int
)

var treeCmd = &cobra.Command{
	Use:   "tree WORD",
	Short: "Grow a map from WORD breadth-first and print it as a tree",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = d.log.Sync() }()

		ex := newExplorer(d, nil)
		word := strings.Join(args, " ")
		if err := growTree(cmd.Context(), ex, word, treeDepth, treeMaxExpansions); err != nil {
			return err
		}
		printTree(cmd.OutOrStdout(), ex.Snapshot())
		return nil
	},
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 2, "deepest level to grow (the seed's words are level 1)")
	treeCmd.Flags().IntVar(&treeMaxExpansions, "max-expansions", 10, "stop after this many expansions")
	rootCmd.AddCommand(relatedCmd, treeCmd)
}

func printRelated(w io.Writer, word string, words []string) {
	brand.Fprintln(w, word)
	if len(words) == 0 {
		subtle.Fprintln(w, "  (no related words)")
		return
	}
	for _, r := range words {
		subtle.Fprint(w, "  • ")
		fmt.Fprintln(w, r)
	}
}

// growTree seeds ex with word and then expands level by level until depth is
// reached or maxExpansions expansions have run.
func growTree(ctx context.Context, ex *graph.Explorer, word string, depth, maxExpansions int) error {
	if !ex.Seed(ctx, word) {
		return fmt.Errorf("could not start a map from %q", word)
	}
	done := 0
	for level := 1; level < depth; level++ {
		var frontier []string
		for _, n := range ex.Snapshot().Nodes {
			if n.Depth == level {
				frontier = append(frontier, n.ID)
			}
		}
		for _, id := range frontier {
			if done >= maxExpansions {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if ex.Expand(ctx, id) {
				done++
			}
		}
	}
	return nil
}

// printTree writes g as an indented tree, children in insertion order.
func printTree(w io.Writer, g graph.Graph) {
	children := map[string][]graph.Node{}
	var roots []graph.Node
	for _, n := range g.Nodes {
		if n.IsRoot() {
			roots = append(roots, n)
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n)
	}

	var walk func(n graph.Node, prefix string)
	walk = func(n graph.Node, prefix string) {
		kids := children[n.ID]
		for i, c := range kids {
			branch, next := "├── ", "│   "
			if i == len(kids)-1 {
				branch, next = "└── ", "    "
			}
			subtle.Fprint(w, prefix+branch)
			if len(children[c.ID]) > 0 {
				info.Fprintln(w, c.Label)
			} else {
				fmt.Fprintln(w, c.Label)
			}
			walk(c, prefix+next)
		}
	}
	for _, r := range roots {
		brand.Fprintln(w, r.Label)
		walk(r, "")
	}
}
