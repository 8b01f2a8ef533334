package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/mindmap/internal/config"
	"github.com/jask/mindmap/internal/graph"
	"github.com/jask/mindmap/internal/layout"
	"github.com/jask/mindmap/internal/service"
)

// Services are the collaborators the App drives.
type Services struct {
	Explorer   *graph.Explorer
	Simulation *layout.Simulation
	Relations  *service.Relations
	Logger     *zap.Logger
}

type focusArea int

const (
	focusInput focusArea = iota
	focusGraph
	focusFind
)

// App is the top-level model: seed form, path history, and the graph view.
type App struct {
	ctx      context.Context
	cfg      config.Config
	explorer *graph.Explorer
	sim      *layout.Simulation
	rel      *service.Relations
	log      *zap.Logger
	graph    *GraphView
	keys     *KeyRegistry

	input   textinput.Model
	finder  textinput.Model
	spin    spinner.Model
	focus   focusArea
	frame   time.Duration
	width   int
	height  int
	status  string
	errored bool

	// spinning is true while a spinner tick chain is live.
	spinning bool
	// ticking is true while a frame tick chain is live.
	ticking bool
	// resetSpan is the header column range of the reset label in the last frame.
	resetSpan [2]int
}

func New(ctx context.Context, cfg config.Config, svc Services) *App {
	in := textinput.New()
	in.Placeholder = "e.g. Quantum Physics..."
	in.Prompt = "› "
	in.CharLimit = 64
	in.Focus()

	find := textinput.New()
	find.Placeholder = "find a node"
	find.Prompt = "/ "
	find.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	log := svc.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fps := cfg.UI.FPS
	if fps <= 0 {
		fps = 30
	}
	return &App{
		ctx:      ctx,
		cfg:      cfg,
		explorer: svc.Explorer,
		sim:      svc.Simulation,
		rel:      svc.Relations,
		log:      log,
		graph:    NewGraphView(svc.Simulation),
		keys:     NewKeyRegistry(DefaultKeyBindings()),
		input:    in,
		finder:   find,
		spin:     sp,
		frame:    time.Second / time.Duration(fps),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.wake())
}

func (a *App) nextFrame() tea.Cmd {
	return tea.Tick(a.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// wake starts the frame chain unless one is already running.
func (a *App) wake() tea.Cmd {
	if a.ticking {
		return nil
	}
	a.ticking = true
	return a.nextFrame()
}

// animating reports whether another frame would change the picture. A node
// drag keeps the simulation hot through its alpha target.
func (a *App) animating() bool {
	return a.sim.Len() > 0 && a.sim.Hot()
}

func (a *App) scope() string {
	switch a.focus {
	case focusGraph:
		return scopeGraph
	case focusFind:
		return scopeFind
	}
	return scopeInput
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.resizeGraph()
		return a, nil
	case frameMsg:
		if !a.animating() {
			a.ticking = false
			return a, nil
		}
		a.sim.Tick()
		return a, a.nextFrame()
	case spinner.TickMsg:
		if !a.explorer.Loading() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd
	case relatedMsg:
		return a, a.applyRelated(m)
	case ConfigMsg:
		return a, a.applyConfig(m)
	case tea.MouseMsg:
		return a, a.handleMouse(m)
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, a.updateInputs(msg)
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, ok := a.keys.Action(m, a.scope())
	if !ok {
		return a, a.updateInputs(m)
	}
	switch action {
	case actionQuit:
		return a, tea.Quit
	case actionReset:
		a.reset()
		return a, nil
	case actionFocus:
		if a.focus == focusInput {
			a.setFocus(focusGraph)
		} else {
			a.setFocus(focusInput)
		}
		return a, nil
	case actionSubmit:
		return a, a.submit()
	}

	g := a.explorer.Snapshot()
	switch action {
	case actionExpand:
		return a, a.expand(a.graph.Selected())
	case actionNext:
		a.graph.Cycle(g, 1)
	case actionPrev:
		a.graph.Cycle(g, -1)
	case actionPanLeft:
		a.graph.PanCells(panStep, 0)
	case actionPanRight:
		a.graph.PanCells(-panStep, 0)
	case actionPanUp:
		a.graph.PanCells(0, panStep/2)
	case actionPanDown:
		a.graph.PanCells(0, -panStep/2)
	case actionZoomIn:
		a.graph.ZoomCenter(zoomStep)
	case actionZoomOut:
		a.graph.ZoomCenter(1 / zoomStep)
	case actionZoomHome:
		a.graph.ResetZoom()
	case actionFind:
		a.finder.Reset()
		a.setFocus(focusFind)
	case actionSelect:
		if best := rankNodes(g, a.finder.Value(), 1); len(best) > 0 {
			a.graph.Select(best[0].ID)
			a.graph.CenterOn(best[0].ID)
		}
		a.setFocus(focusGraph)
	case actionClose:
		if a.focus == focusFind {
			a.setFocus(focusGraph)
		} else {
			a.setFocus(focusInput)
		}
	}
	return a, nil
}

func (a *App) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.focus {
	case focusInput:
		a.input, cmd = a.input.Update(msg)
	case focusFind:
		a.finder, cmd = a.finder.Update(msg)
	}
	return cmd
}

func (a *App) setFocus(f focusArea) {
	a.focus = f
	a.input.Blur()
	a.finder.Blur()
	switch f {
	case focusInput:
		a.input.Focus()
	case focusFind:
		a.finder.Focus()
	}
}

// submit starts a new map from the input text. Blank input and submissions
// while loading are ignored.
func (a *App) submit() tea.Cmd {
	word := strings.TrimSpace(a.input.Value())
	if word == "" {
		return nil
	}
	req, ok := a.explorer.BeginSeed(word)
	if !ok {
		return nil
	}
	a.setStatus("Generating map for "+word+"…", false)
	return a.fetch(req)
}

// expand grows the map from node id unless it is already expanded or a fetch is running.
func (a *App) expand(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	req, ok := a.explorer.BeginExpand(id)
	if !ok {
		return nil
	}
	a.graph.Select(id)
	a.setStatus("Expanding "+req.Word+"…", false)
	return a.fetch(req)
}

func (a *App) fetch(req graph.Request) tea.Cmd {
	explorer, ctx := a.explorer, a.ctx
	cmd := func() tea.Msg {
		return relatedMsg{req: req, words: explorer.Fetch(ctx, req)}
	}
	if a.spinning {
		return cmd
	}
	a.spinning = true
	return tea.Batch(cmd, a.spin.Tick)
}

func (a *App) applyRelated(m relatedMsg) tea.Cmd {
	if !a.explorer.Complete(m.req, m.words) {
		a.log.Debug("discarded stale relation result", zap.String("word", m.req.Word))
		return nil
	}
	g := a.explorer.Snapshot()
	switch m.req.Kind {
	case graph.SeedRequest:
		a.sim.Clear()
		a.sim.Sync(g)
		a.graph.Reset()
		a.graph.Select(m.req.NodeID)
		a.input.Reset()
		a.setStatus(fmt.Sprintf("%s: %d related words", m.req.Word, len(g.Nodes)-1), false)
	case graph.ExpandRequest:
		a.sim.Sync(g)
		a.setStatus(fmt.Sprintf("%s: +%d", m.req.Word, len(m.words)), false)
	}
	return a.wake()
}

func (a *App) reset() {
	a.explorer.Reset()
	a.sim.Clear()
	a.graph.Reset()
	a.input.Reset()
	a.setFocus(focusInput)
	a.setStatus("", false)
}

func (a *App) applyConfig(m ConfigMsg) tea.Cmd {
	if m.Err != nil {
		a.log.Warn("config reload failed", zap.Error(m.Err))
		a.setStatus("config reload failed", true)
		return nil
	}
	a.cfg = m.Config
	if a.rel != nil {
		a.rel.SetModel(m.Config.LLM.Model, m.Config.LLM.Temperature)
	}
	f := a.sim.Forces()
	f.LinkDistance = m.Config.Layout.LinkDistance
	f.Charge = m.Config.Layout.Charge
	f.CollideRadius = m.Config.Layout.CollideRadius
	a.sim.SetForces(f)
	a.log.Info("config reloaded", zap.String("model", m.Config.LLM.Model))
	a.setStatus("config reloaded", false)
	return a.wake()
}

func (a *App) setStatus(s string, isErr bool) {
	a.status, a.errored = s, isErr
}

func (a *App) handleMouse(m tea.MouseMsg) tea.Cmd {
	if m.Action == tea.MouseActionPress && m.Button == tea.MouseButtonLeft &&
		m.Y == 0 && m.X >= a.resetSpan[0] && m.X < a.resetSpan[1] {
		a.reset()
		return nil
	}

	col, row, inside := a.graphCell(m.X, m.Y)
	if !inside && !a.graph.Dragging() {
		if m.Action == tea.MouseActionPress && m.Button == tea.MouseButtonLeft && m.X >= a.graphWidth() {
			a.setFocus(focusInput)
		}
		return nil
	}

	switch m.Action {
	case tea.MouseActionPress:
		switch m.Button {
		case tea.MouseButtonWheelUp:
			a.graph.ZoomAt(zoomStep, col, row)
		case tea.MouseButtonWheelDown:
			a.graph.ZoomAt(1/zoomStep, col, row)
		case tea.MouseButtonLeft:
			if a.focus != focusGraph {
				a.setFocus(focusGraph)
			}
			a.graph.Press(col, row)
		}
	case tea.MouseActionMotion:
		a.graph.Motion(col, row)
		if a.animating() {
			return a.wake()
		}
	case tea.MouseActionRelease:
		if id, clicked := a.graph.Release(); clicked {
			return a.expand(id)
		}
	}
	return nil
}
