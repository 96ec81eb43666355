// Package agent interprets free-text (Spanish) layout commands such as
// "pon verificar claims primero", "mueve chat al final",
// "pon validar antes de chat", "oculta crear material" or "agranda chat".
package agent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"inphormed/internal/layout"
)

// synonym lists are scanned in widgetOrder so resolution is deterministic.
var widgetOrder = []string{layout.WidgetChat, layout.WidgetValidate, layout.WidgetCreate}

var widgetSynonyms = map[string][]string{
	layout.WidgetChat: {
		"chat", "conversación", "asistente", "bot", "dialogo", "diálogo",
	},
	layout.WidgetValidate: {
		"validar", "verificar", "verificador", "validador",
		"validar material", "verificar material",
		"validar claims", "verificar claims", "claims", "revisar claims",
		"verificar diapositivas", "verificar documento", "verificar ppt", "verificar word",
	},
	layout.WidgetCreate: {
		"crear", "generar", "creador", "generador",
		"crear material", "crear contenido", "generar material", "generar contenido",
	},
}

var (
	actionFirst  = []string{"primero", "arriba", "al principio", "inicio", "antes", "top"}
	actionLast   = []string{"último", "ultimo", "abajo", "al final", "final", "bottom"}
	actionHide   = []string{"oculta", "ocultar", "esconde", "esconder", "quita", "quitar"}
	actionShow   = []string{"muestra", "mostrar", "enseña", "enseñar", "pon", "poner", "activar", "activa"}
	actionWide   = []string{"ancho", "grande", "amplio", "agranda", "expandir", "expandelo", "expándelo"}
	actionNarrow = []string{"estrecho", "pequeño", "reduce", "reducir", "estrecha"}
)

var relativeRe = regexp.MustCompile(
	`(?i)(?:pon|mueve|coloca|colócalo|colocar|mover|ordenar|ordena)?\s*` +
		`(?P<a>.+?)\s*(?P<rel>antes de|despues de|después de)\s*(?P<b>.+)`)

// minFuzzyLen is the shortest token eligible for edit-distance matching.
const minFuzzyLen = 4

// Interpreter applies commands to layouts. The zero value is ready to use.
type Interpreter struct{}

// New returns an Interpreter.
func New() *Interpreter {
	return &Interpreter{}
}

// Apply interprets command against l and returns the updated layout plus
// notes describing what changed. An unrecognized command returns the
// normalized layout and no notes.
func (in *Interpreter) Apply(l layout.Layout, command string) (layout.Layout, []string) {
	l = ensureLayout(l)
	var notes []string
	cmd := norm(command)

	if m := relativeRe.FindStringSubmatch(cmd); m != nil {
		a := in.ResolveWidget(m[relativeRe.SubexpIndex("a")])
		b := in.ResolveWidget(m[relativeRe.SubexpIndex("b")])
		rel := m[relativeRe.SubexpIndex("rel")]
		if a != "" && b != "" {
			if strings.Contains(rel, "antes") {
				l = l.MoveBefore(a, b)
				notes = append(notes, fmt.Sprintf("%s → antes de %s", a, b))
			} else {
				l = l.MoveAfter(a, b)
				notes = append(notes, fmt.Sprintf("%s → después de %s", a, b))
			}
			return l, notes
		}
	}

	target := lastMentioned(cmd)
	if target == "" {
		target = in.ResolveWidget(cmd)
	}
	if _, ok := l.Lookup(target); !ok {
		return l, notes
	}

	switch {
	case containsAny(cmd, actionFirst):
		l = l.MoveTo(target, 0)
		notes = append(notes, fmt.Sprintf("%s → posición 1", target))
	case containsAny(cmd, actionLast):
		l = l.MoveTo(target, len(l.Widgets))
		notes = append(notes, fmt.Sprintf("%s → última posición", target))
	}

	switch {
	case containsAny(cmd, actionHide):
		l = setField(l, target, func(w *layout.Widget) { w.Visible = false })
		notes = append(notes, fmt.Sprintf("%s → visible=False", target))
	case containsAny(cmd, actionShow):
		l = setField(l, target, func(w *layout.Widget) { w.Visible = true })
		notes = append(notes, fmt.Sprintf("%s → visible=True", target))
	}

	if containsAny(cmd, actionWide) {
		l = setField(l, target, func(w *layout.Widget) { w.Span = 2 })
		notes = append(notes, fmt.Sprintf("%s → span=2", target))
	}
	if containsAny(cmd, actionNarrow) {
		l = setField(l, target, func(w *layout.Widget) { w.Span = 1 })
		notes = append(notes, fmt.Sprintf("%s → span=1", target))
	}

	return l, notes
}

// ResolveWidget maps a free-text name to a widget id, or "" if nothing
// matches. It tries synonym substrings first, then token overlap, then
// single-edit typos on longer tokens.
func (in *Interpreter) ResolveWidget(name string) string {
	n := norm(name)
	for _, id := range widgetOrder {
		for _, syn := range widgetSynonyms[id] {
			if strings.Contains(n, syn) {
				return id
			}
		}
	}

	tokens := strings.Fields(n)
	best, bestID := 0, ""
	for _, id := range widgetOrder {
		for _, syn := range widgetSynonyms[id] {
			if score := overlap(tokens, strings.Fields(syn)); score > best {
				best, bestID = score, id
			}
		}
	}
	if bestID != "" {
		return bestID
	}

	for _, tok := range tokens {
		if len([]rune(tok)) < minFuzzyLen {
			continue
		}
		for _, id := range widgetOrder {
			for _, syn := range widgetSynonyms[id] {
				if strings.Contains(syn, " ") {
					continue
				}
				if levenshtein.ComputeDistance(tok, syn) <= 1 {
					return id
				}
			}
		}
	}
	return ""
}

// ensureLayout falls back to the default layout when l has no widgets list,
// then collapses duplicate orders and fills defaults.
func ensureLayout(l layout.Layout) layout.Layout {
	if l.Widgets == nil {
		l = layout.Default()
	}
	return l.Normalize()
}

// lastMentioned returns the widget whose synonym appears in cmd, preferring
// the last widget in scan order.
func lastMentioned(cmd string) string {
	var found string
	for _, id := range widgetOrder {
		for _, syn := range widgetSynonyms[id] {
			if strings.Contains(cmd, syn) {
				found = id
				break
			}
		}
	}
	return found
}

func setField(l layout.Layout, id string, set func(*layout.Widget)) layout.Layout {
	out := l.Clone()
	for i := range out.Widgets {
		if out.Widgets[i].ID == id {
			set(&out.Widgets[i])
		}
	}
	return out
}

func overlap(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range a {
		if _, ok := set[t]; ok {
			n++
			delete(set, t)
		}
	}
	return n
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
