package graph

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
)

// ExpandJitter bounds, per axis, how far a new child starts from its parent.
const ExpandJitter = 25.0

// Relater returns words related to a subject. Implementations absorb their own
// failures; the result may be empty but is never an error.
type Relater interface {
	Related(ctx context.Context, word string) []string
}

// Locator reports a node's current simulated position.
type Locator interface {
	Position(id string) (Point, bool)
}

// RequestKind distinguishes seed fetches from expansion fetches.
type RequestKind int

const (
	SeedRequest RequestKind = iota
	ExpandRequest
)

// Request is an outstanding relation fetch handed out by BeginSeed or BeginExpand.
// It must be passed back to Complete with the fetched words.
type Request struct {
	Kind   RequestKind
	Word   string
	NodeID string

	generation uint64
}

// Explorer is the graph model. All methods are safe for concurrent use.
//
// A global loading flag allows a single fetch at a time unless concurrent
// expansions are enabled, in which case only the per-node state guards
// against duplicate expansion. Reset and BeginSeed start a new generation;
// requests issued in an older generation are discarded by Complete.
type Explorer struct {
	relater    Relater
	ids        IDSource
	locator    Locator
	rng        *rand.Rand
	concurrent bool

	mu          sync.Mutex
	generation  uint64
	inFlight    int
	seedPending bool
	nodes       []Node
	edges       []Edge
	index       map[string]int
	states      map[string]ExpansionState
	history     []string
}

// Option configures an Explorer.
type Option func(*Explorer)

func WithIDSource(s IDSource) Option {
	return func(e *Explorer) { e.ids = s }
}

// WithLocator lets expansions start children next to their parent's live position.
func WithLocator(l Locator) Option {
	return func(e *Explorer) { e.locator = l }
}

// WithRand makes position jitter deterministic.
func WithRand(r *rand.Rand) Option {
	return func(e *Explorer) { e.rng = r }
}

// WithConcurrentExpansions lifts the global loading guard for expansions.
func WithConcurrentExpansions(on bool) Option {
	return func(e *Explorer) { e.concurrent = on }
}

func NewExplorer(r Relater, opts ...Option) *Explorer {
	e := &Explorer{
		relater: r,
		ids:     UUIDSource{},
		index:   map[string]int{},
		states:  map[string]ExpansionState{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Seed replaces the map with word and its related words. It reports whether the
// seed was applied.
func (e *Explorer) Seed(ctx context.Context, word string) bool {
	req, ok := e.BeginSeed(word)
	if !ok {
		return false
	}
	return e.Complete(req, e.Fetch(ctx, req))
}

// Expand grows the map from node id. It reports whether new nodes were merged.
func (e *Explorer) Expand(ctx context.Context, id string) bool {
	req, ok := e.BeginExpand(id)
	if !ok {
		return false
	}
	return e.Complete(req, e.Fetch(ctx, req))
}

// Fetch asks the relater for req's word. It holds no lock.
func (e *Explorer) Fetch(ctx context.Context, req Request) []string {
	if e.relater == nil {
		return nil
	}
	return e.relater.Related(ctx, req.Word)
}

// BeginSeed starts a new root search. Blank words and searches while anything
// is loading are rejected. The current map stays visible until Complete.
func (e *Explorer) BeginSeed(word string) (Request, bool) {
	word = strings.TrimSpace(word)
	e.mu.Lock()
	defer e.mu.Unlock()
	if word == "" || e.inFlight > 0 {
		return Request{}, false
	}
	e.generation++
	e.inFlight++
	e.seedPending = true
	clear(e.states)
	return Request{Kind: SeedRequest, Word: word, NodeID: RootID(word), generation: e.generation}, true
}

// BeginExpand marks node id Pending and returns the fetch to perform. It is a
// no-op while loading (unless concurrent expansions are on), while a seed is
// pending, for unknown nodes, and for nodes already Pending or Expanded.
func (e *Explorer) BeginExpand(id string) (Request, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.seedPending || (!e.concurrent && e.inFlight > 0) {
		return Request{}, false
	}
	i, ok := e.index[id]
	if !ok || e.states[id] != Unexpanded {
		return Request{}, false
	}
	e.states[id] = Pending
	e.inFlight++
	n := e.nodes[i]
	return Request{Kind: ExpandRequest, Word: n.Label, NodeID: n.ID, generation: e.generation}, true
}

// Complete merges the words fetched for req. Requests from an older generation
// are dropped and Complete returns false.
func (e *Explorer) Complete(req Request, words []string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if req.generation != e.generation || e.inFlight == 0 {
		return false
	}
	e.inFlight--
	switch req.Kind {
	case SeedRequest:
		e.seedPending = false
		e.applySeed(req.Word, words)
		return true
	case ExpandRequest:
		return e.applyExpand(req.NodeID, words)
	}
	return false
}

func (e *Explorer) applySeed(word string, words []string) {
	root := Node{ID: RootID(word), Label: word, Depth: 0}
	e.nodes = []Node{root}
	e.edges = nil
	e.index = map[string]int{root.ID: 0}
	for _, w := range words {
		e.add(Node{ID: e.ids.NewID(w), Label: w, Depth: 1, ParentID: root.ID})
	}
	e.history = []string{word}
	clear(e.states)
	e.states[root.ID] = Expanded
}

func (e *Explorer) applyExpand(id string, words []string) bool {
	i, ok := e.index[id]
	if !ok {
		return false
	}
	parent := e.nodes[i]
	var origin *Point
	if e.locator != nil {
		if p, ok := e.locator.Position(id); ok {
			origin = &p
		}
	}
	for _, w := range words {
		child := Node{ID: e.ids.NewID(w), Label: w, Depth: parent.Depth + 1, ParentID: parent.ID}
		if origin != nil {
			child.Initial = &Point{
				X: origin.X + e.jitter(ExpandJitter),
				Y: origin.Y + e.jitter(ExpandJitter),
			}
		}
		e.add(child)
	}
	e.history = append(e.history, parent.Label)
	e.states[id] = Expanded
	return true
}

// add appends n and its parent edge. Colliding ids get a fresh one so the
// index stays a bijection.
func (e *Explorer) add(n Node) {
	for {
		if _, taken := e.index[n.ID]; !taken {
			break
		}
		n.ID = e.ids.NewID(n.Label)
	}
	e.index[n.ID] = len(e.nodes)
	e.nodes = append(e.nodes, n)
	if n.ParentID != "" {
		e.edges = append(e.edges, Edge{Source: n.ID, Target: n.ParentID})
	}
}

func (e *Explorer) jitter(span float64) float64 {
	var f float64
	if e.rng != nil {
		f = e.rng.Float64()
	} else {
		f = rand.Float64()
	}
	return (f*2 - 1) * span
}

// Reset clears nodes, edges, history and expansion state, and abandons any
// outstanding request.
func (e *Explorer) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.inFlight = 0
	e.seedPending = false
	e.nodes = nil
	e.edges = nil
	e.index = map[string]int{}
	e.history = nil
	clear(e.states)
}

// Loading reports whether any request is outstanding.
func (e *Explorer) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight > 0
}

// Snapshot returns a copy of the current graph.
func (e *Explorer) Snapshot() Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Graph{Nodes: e.nodes, Edges: e.edges}.clone()
}

// History returns the labels of seeded and expanded nodes in click order.
func (e *Explorer) History() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.history...)
}

// State returns the expansion state of node id.
func (e *Explorer) State(id string) ExpansionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.states[id]
}

// Expanded reports whether id is in the expanded set, i.e. Pending or Expanded.
func (e *Explorer) Expanded(id string) bool {
	return e.State(id) != Unexpanded
}

// ExpandedIDs returns the expanded set in no particular order.
func (e *Explorer) ExpandedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.states))
	for id, s := range e.states {
		if s != Unexpanded {
			out = append(out, id)
		}
	}
	return out
}

// Node looks up a node by id.
func (e *Explorer) Node(id string) (Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, ok := e.index[id]
	if !ok {
		return Node{}, false
	}
	return e.nodes[i], true
}

// Root returns the seed node, if any.
func (e *Explorer) Root() (Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.nodes) == 0 {
		return Node{}, false
	}
	return e.nodes[0], true
}
