// Package connectcost bundles connect-cost plugins (spec.md §4.8), which
// adjust the grammar's connection matrix once, at load time, before any
// lattice is built.
package connectcost

import (
	"github.com/sudachigo/sudachigo/dic/grammar"
)

// InhibitConnection forces a configured set of (left, right) connection-id
// pairs to grammar.InhibitedConnection, preventing the Viterbi search from
// ever crossing that boundary (spec.md §4.8).
type InhibitConnection struct {
	Pairs [][2]int16
}

// SetUp overwrites the grammar's connection cost for every configured pair.
func (p *InhibitConnection) SetUp(gram *grammar.Grammar) error {
	for _, pair := range p.Pairs {
		gram.SetConnectCost(pair[0], pair[1], grammar.InhibitedConnection)
	}
	return nil
}
