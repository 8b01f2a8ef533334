package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	scopeInput = "input"
	scopeGraph = "graph"
	scopeFind  = "find"
)

const (
	actionQuit     = "quit"
	actionReset    = "reset"
	actionFocus    = "focus"
	actionSubmit   = "submit"
	actionExpand   = "expand"
	actionNext     = "next"
	actionPrev     = "prev"
	actionPanLeft  = "pan-left"
	actionPanRight = "pan-right"
	actionPanUp    = "pan-up"
	actionPanDown  = "pan-down"
	actionZoomIn   = "zoom-in"
	actionZoomOut  = "zoom-out"
	actionZoomHome = "zoom-home"
	actionFind     = "find"
	actionSelect   = "select"
	actionClose    = "close"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"ctrl+c"}, Action: actionQuit, Description: "quit", Scopes: []string{"*"}},
		{Keys: []string{"q"}, Action: actionQuit, Description: "quit", Scopes: []string{scopeGraph}},
		{Keys: []string{"ctrl+r"}, Action: actionReset, Description: "reset map", Scopes: []string{"*"}},
		{Keys: []string{"tab"}, Action: actionFocus, Description: "switch focus", Scopes: []string{scopeInput, scopeGraph}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "generate map", Scopes: []string{scopeInput}},
		{Keys: []string{"enter", " "}, Action: actionExpand, Description: "expand", Scopes: []string{scopeGraph}},
		{Keys: []string{"n"}, Action: actionNext, Description: "next node", Scopes: []string{scopeGraph}},
		{Keys: []string{"p"}, Action: actionPrev, Description: "prev node", Scopes: []string{scopeGraph}},
		{Keys: []string{"left", "h"}, Action: actionPanLeft, Description: "pan", Scopes: []string{scopeGraph}},
		{Keys: []string{"right", "l"}, Action: actionPanRight, Description: "", Scopes: []string{scopeGraph}},
		{Keys: []string{"up", "k"}, Action: actionPanUp, Description: "", Scopes: []string{scopeGraph}},
		{Keys: []string{"down", "j"}, Action: actionPanDown, Description: "", Scopes: []string{scopeGraph}},
		{Keys: []string{"+", "="}, Action: actionZoomIn, Description: "zoom", Scopes: []string{scopeGraph}},
		{Keys: []string{"-"}, Action: actionZoomOut, Description: "", Scopes: []string{scopeGraph}},
		{Keys: []string{"0"}, Action: actionZoomHome, Description: "recentre", Scopes: []string{scopeGraph}},
		{Keys: []string{"/"}, Action: actionFind, Description: "find", Scopes: []string{scopeGraph}},
		{Keys: []string{"enter"}, Action: actionSelect, Description: "jump", Scopes: []string{scopeFind}},
		{Keys: []string{"esc"}, Action: actionClose, Description: "back", Scopes: []string{scopeFind, scopeGraph}},
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

// Action returns the first action bound to msg in scope.
func (r *KeyRegistry) Action(msg tea.KeyMsg, scope string) (string, bool) {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return b.Action, true
			}
		}
	}
	return "", false
}

func normalizeKey(k string) string {
	if k == " " {
		return k
	}
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}
