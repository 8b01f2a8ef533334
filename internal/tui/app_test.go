package tui

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/mindmap/internal/config"
	"github.com/jask/mindmap/internal/graph"
	"github.com/jask/mindmap/internal/layout"
)

type relaterFunc func(string) []string

func (f relaterFunc) Related(_ context.Context, w string) []string { return f(w) }

var oceanWords = map[string][]string{
	"Ocean": {"Wave", "Tide", "Salt", "Coral"},
	"Wave":  {"Surf", "Crest"},
}

func newTestApp(t *testing.T, words map[string][]string) *App {
	t.Helper()
	sim := layout.New(layout.DefaultForces(), layout.WithRand(rand.New(rand.NewPCG(3, 4))))
	ex := graph.NewExplorer(
		relaterFunc(func(w string) []string { return words[w] }),
		graph.WithIDSource(&graph.CounterSource{}),
		graph.WithLocator(sim),
		graph.WithRand(rand.New(rand.NewPCG(5, 6))),
	)
	cfg := config.Config{LLM: config.LLMConfig{Provider: "gemini", Model: "test-model"}}
	a := New(context.Background(), cfg, Services{Explorer: ex, Simulation: sim})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return a
}

// collect runs cmd and any batched commands, returning the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver feeds the fetch results produced by cmd back into a.
func deliver(a *App, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		if _, ok := msg.(relatedMsg); ok {
			a.Update(msg)
		}
	}
}

func press(a *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func typeText(a *App, s string) {
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

func runeKey(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func seed(t *testing.T, a *App, word string) {
	t.Helper()
	typeText(a, word)
	cmd := press(a, enterKey)
	require.NotNil(t, cmd)
	deliver(a, cmd)
	require.False(t, a.explorer.Loading())
}

func screen(a *App) string { return ansi.Strip(a.View()) }

func TestEmptyViewPromptsForWord(t *testing.T) {
	a := newTestApp(t, oceanWords)
	out := screen(a)
	require.Contains(t, out, "Mind Map Explorer")
	require.Contains(t, out, "Discover context with Gemini · test-model")
	require.Contains(t, out, emptyMessage)
	require.Contains(t, out, "Start Your Journey")
	require.NotContains(t, out, "YOUR PATH")
	require.NotContains(t, out, resetLabel)
	require.Equal(t, [2]int{}, a.resetSpan)
}

func TestViewBeforeSizeIsBlank(t *testing.T) {
	a := newTestApp(t, oceanWords)
	a.Update(tea.WindowSizeMsg{})
	require.Empty(t, a.View())
}

func TestSubmitSeedsMap(t *testing.T) {
	a := newTestApp(t, oceanWords)
	typeText(a, "Ocean")
	cmd := press(a, enterKey)
	require.NotNil(t, cmd)
	require.True(t, a.explorer.Loading())
	require.Contains(t, screen(a), loadingMessage)

	deliver(a, cmd)
	g := a.explorer.Snapshot()
	require.Len(t, g.Nodes, 5)
	require.Len(t, g.Edges, 4)
	require.Equal(t, []string{"Ocean"}, a.explorer.History())
	require.Equal(t, "ocean", a.graph.Selected())
	require.Empty(t, a.input.Value())
	require.Equal(t, 5, a.sim.Len())
	require.Contains(t, a.status, "Ocean: 4 related words")

	out := screen(a)
	require.Contains(t, out, "YOUR PATH")
	require.Contains(t, out, "New Search")
	require.Contains(t, out, resetLabel)
	require.NotContains(t, out, loadingMessage)
	require.NotContains(t, out, emptyMessage)
}

func TestBlankSubmitIsIgnored(t *testing.T) {
	a := newTestApp(t, oceanWords)
	typeText(a, "   ")
	require.Nil(t, press(a, enterKey))
	require.False(t, a.explorer.Loading())
	require.True(t, a.explorer.Snapshot().Empty())
}

func TestSubmitWhileLoadingIsIgnored(t *testing.T) {
	a := newTestApp(t, oceanWords)
	typeText(a, "Ocean")
	first := press(a, enterKey)
	require.NotNil(t, first)
	typeText(a, "Sea")
	require.Nil(t, press(a, enterKey))
	deliver(a, first)
	require.Equal(t, []string{"Ocean"}, a.explorer.History())
}

func TestKeyboardExpandsSelectedNode(t *testing.T) {
	a := newTestApp(t, oceanWords)
	seed(t, a, "Ocean")

	press(a, tabKey)
	require.Equal(t, focusGraph, a.focus)
	require.Nil(t, press(a, enterKey), "root is already expanded")

	press(a, runeKey("n"))
	require.Equal(t, "wave-1", a.graph.Selected())
	cmd := press(a, enterKey)
	require.NotNil(t, cmd)
	require.Equal(t, graph.Pending, a.explorer.State("wave-1"))
	require.Nil(t, press(a, enterKey), "pending node cannot expand again")

	deliver(a, cmd)
	require.Equal(t, graph.Expanded, a.explorer.State("wave-1"))
	require.Len(t, a.explorer.Snapshot().Nodes, 7)
	require.Equal(t, []string{"Ocean", "Wave"}, a.explorer.History())
	require.Equal(t, 7, a.sim.Len())
	require.Nil(t, press(a, enterKey))
}

func TestClickOnNodeExpandsIt(t *testing.T) {
	a := newTestApp(t, map[string][]string{"Ocean": {"Wave"}, "Wave": {"Surf"}})
	seed(t, a, "Ocean")

	require.True(t, a.sim.DragStart("wave-1"))
	a.sim.DragTo("wave-1", graph.Point{X: -200, Y: -160})
	a.sim.Tick()
	a.sim.DragEnd("wave-1")
	a.View()

	p, ok := a.sim.Position("wave-1")
	require.True(t, ok)
	col, row := a.graph.toCell(p)
	id, ok := a.graph.HitTest(col, row)
	require.True(t, ok)
	require.Equal(t, "wave-1", id)

	x, y := col, row+headerHeight
	a.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, focusGraph, a.focus)
	_, cmd := a.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.NotNil(t, cmd)
	require.Equal(t, graph.Pending, a.explorer.State("wave-1"))

	deliver(a, cmd)
	require.Len(t, a.explorer.Snapshot().Nodes, 3)
}

func TestHeaderResetClearsMap(t *testing.T) {
	a := newTestApp(t, oceanWords)
	seed(t, a, "Ocean")
	a.View()
	require.Greater(t, a.resetSpan[1], a.resetSpan[0])

	a.Update(tea.MouseMsg{X: a.resetSpan[0], Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.True(t, a.explorer.Snapshot().Empty())
	require.Empty(t, a.explorer.History())
	require.Zero(t, a.sim.Len())
	require.Equal(t, focusInput, a.focus)

	out := screen(a)
	require.Contains(t, out, emptyMessage)
	require.Contains(t, out, "Start Your Journey")
}

func TestResetDiscardsInFlightSeed(t *testing.T) {
	a := newTestApp(t, oceanWords)
	typeText(a, "Ocean")
	cmd := press(a, enterKey)
	require.NotNil(t, cmd)

	press(a, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.False(t, a.explorer.Loading())

	deliver(a, cmd)
	require.True(t, a.explorer.Snapshot().Empty())
	require.Zero(t, a.sim.Len())
}

func TestFindJumpsToBestMatch(t *testing.T) {
	a := newTestApp(t, oceanWords)
	seed(t, a, "Ocean")
	press(a, tabKey)
	press(a, runeKey("/"))
	require.Equal(t, focusFind, a.focus)

	typeText(a, "cor")
	require.Contains(t, screen(a), "Coral")

	press(a, enterKey)
	require.Equal(t, focusGraph, a.focus)
	require.Equal(t, "coral-4", a.graph.Selected())
}

func TestEscapeLeavesFinderAndGraph(t *testing.T) {
	a := newTestApp(t, oceanWords)
	seed(t, a, "Ocean")
	press(a, tabKey)
	press(a, runeKey("/"))
	esc := tea.KeyMsg{Type: tea.KeyEsc}
	press(a, esc)
	require.Equal(t, focusGraph, a.focus)
	press(a, esc)
	require.Equal(t, focusInput, a.focus)
}

func TestConfigReloadUpdatesForces(t *testing.T) {
	a := newTestApp(t, oceanWords)
	cfg := config.Config{
		LLM:    config.LLMConfig{Provider: "gemini", Model: "other-model"},
		Layout: config.LayoutConfig{LinkDistance: 90, Charge: -300, CollideRadius: 40},
	}
	a.Update(ConfigMsg{Config: cfg})
	f := a.sim.Forces()
	require.Equal(t, 90.0, f.LinkDistance)
	require.Equal(t, -300.0, f.Charge)
	require.Equal(t, 40.0, f.CollideRadius)
	require.Equal(t, "config reloaded", a.status)
	require.Contains(t, screen(a), "other-model")

	a.Update(ConfigMsg{Err: errors.New("bad toml")})
	require.True(t, a.errored)
	require.Equal(t, -300.0, a.sim.Forces().Charge)
}

func TestFramesStopOnceLayoutCools(t *testing.T) {
	a := newTestApp(t, map[string][]string{"Ocean": {"Wave"}})
	typeText(a, "Ocean")
	var frame tea.Cmd
	for _, msg := range collect(press(a, enterKey)) {
		if rm, ok := msg.(relatedMsg); ok {
			_, frame = a.Update(rm)
		}
	}
	if frame == nil || !a.ticking {
		t.Fatal("seeding did not start the frame chain")
	}

	for a.sim.Hot() {
		a.sim.Tick()
	}
	if _, next := a.Update(frameMsg(time.Now())); next != nil || a.ticking {
		t.Fatal("a cold layout kept scheduling frames")
	}

	a.View()
	p, _ := a.sim.Position("wave-1")
	col, row := a.graph.toCell(p)
	a.Update(tea.MouseMsg{X: col, Y: row + headerHeight, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	_, cmd := a.Update(tea.MouseMsg{X: col + 2, Y: row + headerHeight, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if cmd == nil || !a.ticking {
		t.Fatal("dragging a node did not restart frames")
	}
	if _, again := a.Update(tea.MouseMsg{X: col + 3, Y: row + headerHeight, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}); again != nil {
		t.Fatal("a second frame chain was started")
	}
	a.Update(tea.MouseMsg{X: col + 3, Y: row + headerHeight, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	for a.sim.Hot() {
		a.sim.Tick()
	}
	a.Update(frameMsg(time.Now()))
	if a.ticking {
		t.Fatal("frames kept running after the drag cooled")
	}
	cfg := config.Config{Layout: config.LayoutConfig{LinkDistance: 120, Charge: -500, CollideRadius: 60}}
	if _, cmd := a.Update(ConfigMsg{Config: cfg}); cmd == nil || !a.ticking {
		t.Fatal("new forces did not restart frames")
	}
}

func TestFramesIdleWithoutMap(t *testing.T) {
	a := newTestApp(t, oceanWords)
	a.ticking = true
	if _, next := a.Update(frameMsg(time.Now())); next != nil || a.ticking {
		t.Fatal("an empty map kept scheduling frames")
	}
}
