package mcts

import "strings"

// Action is a player decision. The zero value marks the root of a search.
type Action int

const (
	None Action = iota
	Hit
	Stand
	Double
	Surrender
	Insurance
)

// Actions lists every decision in enumeration order. Children are created in
// this order and ties are broken in favour of the earlier entry.
var Actions = []Action{Hit, Stand, Double, Surrender, Insurance}

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case None:
		return "none"
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Surrender:
		return "surrender"
	case Insurance:
		return "insurance"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further decision follows the action.
func (a Action) IsTerminal() bool {
	return a == Stand || a == Double || a == Surrender
}

// ParseAction converts a name to an Action.
func ParseAction(s string) (Action, bool) {
	for _, a := range Actions {
		if strings.EqualFold(s, a.String()) {
			return a, true
		}
	}
	return None, false
}

// ActionSet is a set of actions.
type ActionSet uint8

// NewActionSet builds a set from the given actions.
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

// With returns the set with a added.
func (s ActionSet) With(a Action) ActionSet {
	return s | 1<<uint(a)
}

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool {
	return s&(1<<uint(a)) != 0
}

// Slice returns the members in enumeration order.
func (s ActionSet) Slice() []Action {
	var out []Action
	for _, a := range Actions {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of members.
func (s ActionSet) Len() int {
	n := 0
	for _, a := range Actions {
		if s.Has(a) {
			n++
		}
	}
	return n
}

// String returns the members joined by commas.
func (s ActionSet) String() string {
	names := make([]string, 0, len(Actions))
	for _, a := range s.Slice() {
		names = append(names, a.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Phase selects which question a search answers.
type Phase int

const (
	// PhasePlay decides between hit, stand, double and surrender. Insurance
	// has already been offered and resolved.
	PhasePlay Phase = iota
	// PhaseInsurance decides only whether to take insurance.
	PhaseInsurance
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhasePlay:
		return "play"
	case PhaseInsurance:
		return "insurance"
	default:
		return "unknown"
	}
}

// ParsePhase converts a name to a Phase.
func ParsePhase(s string) (Phase, bool) {
	switch strings.ToLower(s) {
	case "", "play":
		return PhasePlay, true
	case "insurance":
		return PhaseInsurance, true
	default:
		return PhasePlay, false
	}
}

// Stage describes the position a node represents.
type Stage struct {
	Last     Action // action that produced the node, None at the root
	Total    int    // player total
	Cards    int    // player card count
	Drawable int    // cards left in the branch's pool
}

// History records the decisions taken on the path to a node.
type History struct {
	Phase    Phase
	Hit      bool
	Insured  bool
	Declined bool // double and surrender were already turned down
}

// MaxCards is the hand size at which drawing stops; five unbusted cards
// already pay the premium.
const MaxCards = 5

// LegalActions returns the decisions available at a node. It is the only
// place the rules of play are encoded; expansion, the engine and the
// advisors all consult it.
func LegalActions(stage Stage, history History, dealerShowsAce bool) ActionSet {
	if stage.Last.IsTerminal() || stage.Total > 21 {
		return 0
	}

	initial := stage.Cards == 2 && !history.Hit && !history.Insured && !history.Declined

	if history.Phase == PhaseInsurance {
		if stage.Last != None {
			return 0
		}
		set := NewActionSet(Stand)
		if dealerShowsAce && initial {
			set = set.With(Insurance)
		}
		return set
	}

	var set ActionSet
	if stage.Total < 21 && stage.Cards < MaxCards && stage.Drawable > 0 {
		set = set.With(Hit)
	}
	set = set.With(Stand)
	if initial {
		set = set.With(Double).With(Surrender)
	}
	return set
}
