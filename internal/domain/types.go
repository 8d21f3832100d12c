package domain

import (
	"encoding/json"
	"time"
)

// Transaction is one well-formed transaction object handed over by the
// block-synchronization feed. Transactions arrive at-least-once and in-order;
// every write they produce is an idempotent natural-key upsert, so redelivery
// is always safe to reapply in full.
type Transaction struct {
	ID        string    `json:"id"`
	BlockNum  uint64    `json:"block_num"`
	BlockTime time.Time `json:"block_time"`
	Actions   []Action  `json:"actions"`
}

// Action is a single contract action within a transaction. Args is kept raw
// and decoded by the handler the action routes to.
type Action struct {
	Code     string          `json:"code"`
	Receiver string          `json:"receiver"`
	Action   string          `json:"action"`
	Args     json.RawMessage `json:"args"`
	Events   []Event         `json:"events"`
}

// HasArgs reports whether the action carries a usable args payload.
func (a *Action) HasArgs() bool {
	return len(a.Args) > 0 && string(a.Args) != "null"
}

// Route returns the dispatch tuple identifying this action.
func (a *Action) Route() Route {
	return Route{Code: a.Code, Receiver: a.Receiver, Action: a.Action}
}

// Event is a nested contract event emitted by an action.
type Event struct {
	Code  string          `json:"code"`
	Event string          `json:"event"`
	Args  json.RawMessage `json:"args"`
}

// Route is the (code, receiver, action) tuple actions are dispatched on.
// The dispatch table is resolved once at construction, keyed by this tuple.
type Route struct {
	Code     string
	Receiver string
	Action   string
}

// TransactionBatch is the payload of one feed message.
type TransactionBatch struct {
	Transactions []*Transaction `json:"transactions"`
}
