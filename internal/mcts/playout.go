package mcts

import (
	rand "math/rand/v2"

	"github.com/lox/blackjack-mcts/internal/deck"
	"github.com/lox/blackjack-mcts/internal/hand"
	"github.com/lox/blackjack-mcts/internal/payout"
	"github.com/lox/blackjack-mcts/internal/randutil"
)

// leaf is the read-only part of a node a rollout needs. Tasks share it
// across goroutines and copy before mutating.
type leaf struct {
	action Action
	hand   []deck.Card
	pool   []deck.Card
	dealer []deck.Card
}

func leafOf(n *Node, dealer []deck.Card) leaf {
	return leaf{action: n.Action, hand: n.Hand, pool: n.Pool, dealer: dealer}
}

// rolloutResult is one task's share of a playout.
type rolloutResult struct {
	sum   float64
	count int
}

// rolloutTask runs n rollouts of l with its own random source.
func rolloutTask(l leaf, table payout.Table, seed int64, n int) rolloutResult {
	rng := randutil.New(seed)
	scratch := make([]deck.Card, 0, len(l.pool))
	player := make([]deck.Card, 0, len(l.hand)+1)
	dealer := make([]deck.Card, 0, len(l.dealer)+6)

	var res rolloutResult
	for range n {
		res.sum += rollout(l, table, rng, scratch, player, dealer)
		res.count++
	}
	return res
}

// rollout plays the leaf's action out to a settled hand and returns its
// value on the normalised scale. The buffers are reused between calls.
func rollout(l leaf, table payout.Table, rng *rand.Rand, scratch, player, dealer []deck.Card) float64 {
	pool := append(scratch[:0], l.pool...)
	deck.Shuffle(pool, rng)
	draw := func() (deck.Card, bool) {
		if len(pool) == 0 {
			return deck.Card{}, false
		}
		c := pool[len(pool)-1]
		pool = pool[:len(pool)-1]
		return c, true
	}

	dealer = append(dealer[:0], l.dealer...)
	if len(dealer) == 1 {
		if c, ok := draw(); ok {
			dealer = append(dealer, c)
		}
	}

	player = append(player[:0], l.hand...)
	if l.action == Double {
		if c, ok := draw(); ok {
			player = append(player, c)
		}
	}

	dealer = playDealer(dealer, draw)

	s := table.Settle(player, dealer, payout.Wager{
		Doubled:     l.action == Double,
		Surrendered: l.action == Surrender,
		Insured:     l.action == Insurance,
	})
	return payout.Normalize(s.Net())
}

// playDealer draws for the dealer under the hit-soft-17 rule until the
// dealer stands or the pool runs dry.
func playDealer(dealer []deck.Card, draw func() (deck.Card, bool)) []deck.Card {
	for hand.DealerShouldHit(dealer) {
		c, ok := draw()
		if !ok {
			break
		}
		dealer = append(dealer, c)
	}
	return dealer
}

// splitRollouts divides n rollouts over at most workers tasks, giving the
// remainder to the last task.
func splitRollouts(n, workers int) []int {
	tasks := min(workers, n)
	if tasks <= 0 {
		return nil
	}
	per := n / tasks
	shares := make([]int, tasks)
	for i := range shares {
		shares[i] = per
	}
	shares[tasks-1] += n % tasks
	return shares
}
