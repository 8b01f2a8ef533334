package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/mindmap/internal/graph"
)

const (
	headerHeight = 2
	footerHeight = 1
	sidebarWidth = 34
)

const (
	emptyMessage   = "Enter a word to start your journey"
	loadingMessage = "Expanding Consciousness..."
	resetLabel     = "↻ Reset Map"
)

func (a *App) graphWidth() int   { return max(0, a.width-sidebarWidth) }
func (a *App) bodyHeight() int   { return max(0, a.height-headerHeight-footerHeight) }
func (a *App) resizeGraph()      { a.graph.Resize(a.graphWidth(), a.bodyHeight()) }
func (a *App) sidebarInner() int { return max(1, sidebarWidth-4) }

// graphCell converts a screen position to a graph-area cell.
func (a *App) graphCell(x, y int) (int, int, bool) {
	col, row := x, y-headerHeight
	inside := col >= 0 && col < a.graphWidth() && row >= 0 && row < a.bodyHeight()
	return col, row, inside
}

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	g := a.explorer.Snapshot()
	loading := a.explorer.Loading()

	header := a.renderHeader(!g.Empty())
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderGraphPane(g, loading),
		a.renderSidebar(g, loading),
	)
	footer := renderFooter(a.keys.BindingsForScope(a.scope()), a.status, a.errored, a.width)
	return header + "\n" + body + "\n" + footer
}

func (a *App) renderHeader(hasGraph bool) string {
	title := titleStyle.Render("◆ Mind Map Explorer")
	a.resetSpan = [2]int{}
	if hasGraph {
		label := resetStyle.Render(resetLabel)
		lw := ansi.StringWidth(label)
		gap := a.width - ansi.StringWidth(title) - lw
		if gap >= 1 {
			a.resetSpan = [2]int{a.width - lw, a.width}
			title += strings.Repeat(" ", gap) + label
		}
	}
	sub := subtitleStyle.Render("Discover context with " + providerName(a.cfg.LLM.Provider) + " · " + a.model())
	return fitBlock(title+"\n"+sub, a.width, headerHeight)
}

func (a *App) model() string {
	if a.rel != nil {
		return a.rel.Model()
	}
	return a.cfg.LLM.Model
}

func providerName(p string) string {
	switch strings.ToLower(p) {
	case "openai":
		return "OpenAI"
	case "", "gemini":
		return "Gemini"
	}
	return p
}

func (a *App) renderGraphPane(g graph.Graph, loading bool) string {
	w, h := a.graphWidth(), a.bodyHeight()
	if w == 0 || h == 0 {
		return ""
	}
	var pane string
	if g.Empty() {
		pane = fitBlock("", w, h)
		if !loading {
			pane = overlayCentered(pane, emptyStyle.Render("✦\n\n"+emptyMessage), w, h, 0)
		}
	} else {
		pane = a.graph.Render(g, a.explorer.State)
		hint := hintStyle.Render(
			hintKeyStyle.Render("Click") + " a word to expand  ·  " +
				hintKeyStyle.Render("Drag") + " to move nodes  ·  " +
				hintKeyStyle.Render("Scroll") + " to zoom")
		if maxLineWidth(splitLines(hint)) <= w {
			pane = overlayBottom(pane, hint, w, h, 0)
		}
	}
	if loading {
		pane = overlayCentered(pane, loadingStyle.Render(a.spin.View()+" "+loadingMessage), w, h, 0)
	}
	return fitBlock(pane, w, h)
}

func (a *App) renderSidebar(g graph.Graph, loading bool) string {
	h := a.bodyHeight()
	inner := a.sidebarInner()
	cards := []string{a.renderSeedCard(g, loading, inner)}
	if a.focus == focusFind {
		cards = append(cards, a.renderFindCard(g, inner))
	}
	used := 0
	for _, c := range cards {
		used += len(splitLines(c))
	}
	if hist := a.explorer.History(); len(hist) > 0 {
		if room := h - used - 3; room > 0 {
			cards = append(cards, renderPath(hist, inner, room))
		}
	}
	return fitBlock(lipgloss.JoinVertical(lipgloss.Left, cards...), sidebarWidth, h)
}

func (a *App) renderSeedCard(g graph.Graph, loading bool, inner int) string {
	title := "Start Your Journey"
	if !g.Empty() {
		title = "New Search"
	}
	a.input.Width = max(1, inner-3)

	var button string
	switch {
	case loading:
		button = buttonOffStyle.Render(a.spin.View() + " Generate Map")
	case strings.TrimSpace(a.input.Value()) == "":
		button = buttonOffStyle.Render("Generate Map")
	default:
		button = buttonStyle.Render("Generate Map")
	}

	style := cardStyle
	if a.focus == focusInput {
		style = cardFocusStyle
	}
	body := cardTitleStyle.Render("✿ "+title) + "\n\n" + a.input.View() + "\n\n" + button
	return style.Width(inner + 2).Render(body)
}

func (a *App) renderFindCard(g graph.Graph, inner int) string {
	a.finder.Width = max(1, inner-3)
	lines := []string{a.finder.View()}
	for i, n := range rankNodes(g, a.finder.Value(), maxMatches) {
		st := matchStyle
		if i == 0 {
			st = matchBestStyle
		}
		lines = append(lines, st.Render(truncate(n.Label, inner)))
	}
	return cardFocusStyle.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

// renderPath lists history with a connector between entries, keeping the most
// recent entries when rows run out.
func renderPath(history []string, inner, rows int) string {
	lines := make([]string, 0, 2*len(history))
	for i, word := range history {
		lines = append(lines, pathDotStyle.Render("●")+" "+truncate(word, inner-2))
		if i < len(history)-1 {
			lines = append(lines, pathLineStyle.Render("│"))
		}
	}
	room := max(1, rows-2)
	if len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	body := pathTitleStyle.Render("YOUR PATH") + "\n\n" + strings.Join(lines, "\n")
	return cardStyle.Width(inner + 2).Render(body)
}
