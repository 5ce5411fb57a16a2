package session

import "phonestore/internal/model"

// State is the per-session dialogue state.
type State int

const (
	StateIdle State = iota
	// StateAwaitingProductChoice means a brand listing was just shown and the
	// next message is interpreted as a product name.
	StateAwaitingProductChoice
	// The consultation states track which of the four guided questions was
	// asked last; the next message answers it.
	StateConsultPurpose
	StateConsultBudget
	StateConsultFeature
	StateConsultColor
)

// HistoryCap bounds the per-session turn history. Oldest entries are evicted
// first.
const HistoryCap = 10

// Turn is one completed exchange kept in the bounded history.
type Turn struct {
	Intent      string
	ProductName string
	Brand       string
	Message     string
	Reply       string
}

// Consultation holds the answers of the guided four-question flow. Fields
// fill strictly in order purpose, budget, feature, color; completing color
// resets the record.
type Consultation struct {
	Purpose string
	Budget  string
	Feature string
	Color   string
}

// Complete reports whether all four answers have been collected.
func (c *Consultation) Complete() bool {
	return c.Purpose != "" && c.Budget != "" && c.Feature != "" && c.Color != ""
}

// Reset clears the sub-record for the next consultation cycle.
func (c *Consultation) Reset() {
	*c = Consultation{}
}

// Context is the per-session conversation memory. It is only ever mutated
// through a snapshot obtained from Session.Begin and stored back with
// Session.Commit, so a failing turn leaves the committed record untouched.
type Context struct {
	State        State
	LastProduct  *model.Product
	LastBrand    string
	LastIntent   string
	Consultation Consultation
	History      []Turn
}

// AppendTurn records a completed exchange, evicting the oldest entry once
// the cap is reached.
func (c *Context) AppendTurn(t Turn) {
	c.History = append(c.History, t)
	if len(c.History) > HistoryCap {
		c.History = c.History[len(c.History)-HistoryCap:]
	}
}

// RecentTurns returns up to n most recent history entries, oldest first.
func (c *Context) RecentTurns(n int) []Turn {
	if len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}

// Clone returns a snapshot safe to mutate independently of the stored
// record. Products are immutable, so the pointer is shared.
func (c *Context) Clone() *Context {
	snap := *c
	snap.History = make([]Turn, len(c.History))
	copy(snap.History, c.History)
	return &snap
}
