package mcts

import (
	"fmt"
	"math"
	rand "math/rand/v2"

	"github.com/lox/blackjack-mcts/internal/deck"
	"github.com/lox/blackjack-mcts/internal/hand"
)

// DefaultExploration is the UCB1 exploration constant.
const DefaultExploration = 1.414

const noParent = -1

// Node is a position in the search tree. Nodes live in the tree's arena and
// refer to each other by index.
type Node struct {
	Action   Action
	Parent   int
	Children []int
	Visits   int
	Value    float64

	// Hand is the player's hand at this node. For Hit nodes it includes
	// the card drawn when the node was created.
	Hand []deck.Card
	// Pool is the set of unseen cards visible to this branch.
	Pool    []deck.Card
	History History
}

// Mean returns the average value per visit.
func (n *Node) Mean() float64 {
	if n.Visits == 0 {
		return 0
	}
	return n.Value / float64(n.Visits)
}

// Stage returns the position descriptor used by LegalActions.
func (n *Node) Stage() Stage {
	return Stage{
		Last:     n.Action,
		Total:    hand.Total(n.Hand),
		Cards:    len(n.Hand),
		Drawable: len(n.Pool),
	}
}

// Tree is a decision-scoped search tree rooted at the real hand.
type Tree struct {
	nodes          []Node
	exploration    float64
	dealerShowsAce bool
	rng            *rand.Rand
}

// NewTree creates a tree holding only the root.
func NewTree(playerHand, pool []deck.Card, history History, dealerShowsAce bool, exploration float64, rng *rand.Rand) *Tree {
	t := &Tree{
		nodes:          make([]Node, 0, 64),
		exploration:    exploration,
		dealerShowsAce: dealerShowsAce,
		rng:            rng,
	}
	t.nodes = append(t.nodes, Node{
		Action:  None,
		Parent:  noParent,
		Hand:    append([]deck.Card(nil), playerHand...),
		Pool:    append([]deck.Card(nil), pool...),
		History: history,
	})
	return t
}

// Root returns the index of the root node.
func (t *Tree) Root() int {
	return 0
}

// Node returns the node at index i.
func (t *Tree) Node(i int) *Node {
	return &t.nodes[i]
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Legal returns the legal actions at node i.
func (t *Tree) Legal(i int) ActionSet {
	n := &t.nodes[i]
	return LegalActions(n.Stage(), n.History, t.dealerShowsAce)
}

// UCB returns the selection score of child under a parent with the given
// visit count. Unvisited children score +Inf.
func (t *Tree) UCB(child, parentVisits int) float64 {
	n := &t.nodes[child]
	if n.Visits == 0 {
		return math.Inf(1)
	}
	exploit := n.Value / float64(n.Visits)
	explore := t.exploration * math.Sqrt(math.Log(float64(parentVisits))/float64(n.Visits))
	return exploit + explore
}

// Select walks from the root to a leaf, taking the highest scoring child at
// each step.
func (t *Tree) Select() int {
	i := t.Root()
	for len(t.nodes[i].Children) > 0 {
		parentVisits := t.nodes[i].Visits
		best := -1
		bestScore := math.Inf(-1)
		for _, c := range t.nodes[i].Children {
			if score := t.UCB(c, parentVisits); best < 0 || score > bestScore {
				best, bestScore = c, score
			}
		}
		i = best
	}
	return i
}

// Expand creates one child per legal action at leaf i and returns their
// indices in enumeration order. A node that already has children is
// returned unchanged.
func (t *Tree) Expand(i int) []int {
	if len(t.nodes[i].Children) > 0 {
		return t.nodes[i].Children
	}

	for _, a := range t.Legal(i).Slice() {
		parent := &t.nodes[i]
		child := Node{
			Action:  a,
			Parent:  i,
			Hand:    parent.Hand,
			Pool:    parent.Pool,
			History: parent.History,
		}

		switch a {
		case Hit:
			idx := t.rng.IntN(len(parent.Pool))
			child.Hand = append(append(make([]deck.Card, 0, len(parent.Hand)+1), parent.Hand...), parent.Pool[idx])
			child.Pool = append(append(make([]deck.Card, 0, len(parent.Pool)-1), parent.Pool[:idx]...), parent.Pool[idx+1:]...)
			child.History.Hit = true
		case Insurance:
			child.History.Insured = true
		}

		// Appending may move the arena, so parent is re-read afterwards.
		t.nodes = append(t.nodes, child)
		t.nodes[i].Children = append(t.nodes[i].Children, len(t.nodes)-1)
	}
	return t.nodes[i].Children
}

// Backpropagate adds value and one visit to node i and every ancestor.
func (t *Tree) Backpropagate(i int, value float64) {
	for i != noParent {
		n := &t.nodes[i]
		n.Visits++
		n.Value += value

		if p := n.Parent; p != noParent && !t.isChild(p, i) {
			panic(fmt.Sprintf("mcts: node %d is not a child of its parent %d", i, p))
		}
		i = n.Parent
	}
}

func (t *Tree) isChild(parent, child int) bool {
	for _, c := range t.nodes[parent].Children {
		if c == child {
			return true
		}
	}
	return false
}

// BestChild returns the most visited child of the root. Ties go to the
// earlier child.
func (t *Tree) BestChild() (int, error) {
	best := -1
	for _, c := range t.nodes[t.Root()].Children {
		if t.nodes[c].Visits == 0 {
			continue
		}
		if best < 0 || t.nodes[c].Visits > t.nodes[best].Visits {
			best = c
		}
	}
	if best < 0 {
		return 0, ErrNoDecision
	}
	return best, nil
}
