// Package disperser turns each feed transaction's actions and nested events
// into normalized ledger-record upserts. It is stateless per call: handlers
// never consult sibling actions, and every write is an idempotent
// natural-key upsert, so replaying a transaction converges to the same state.
package disperser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/golos-tools/wallet-indexer/internal/asset"
	"github.com/golos-tools/wallet-indexer/internal/domain"
	"github.com/golos-tools/wallet-indexer/internal/logger"
	"github.com/golos-tools/wallet-indexer/internal/store"
	"github.com/golos-tools/wallet-indexer/internal/store/schema"
)

// Config names the contract accounts actions are dispatched on.
type Config struct {
	// TokenContract is the token contract account (issues balance/currency events)
	TokenContract string
	// VestingContract is the vesting pool contract account
	VestingContract string
	// ControlContract is the control contract account (changevest actions)
	ControlContract string
	// SocialContract is the social contract account (updatemeta actions)
	SocialContract string
}

// trxContext carries the transaction-level fields copied into every record
// the transaction's actions produce.
type trxContext struct {
	TrxID     string
	Block     uint64
	Timestamp time.Time
}

type actionHandler func(ctx context.Context, action *domain.Action, trx trxContext) error

// Disperser routes actions to upsert handlers via an explicit dispatch table
// keyed by the (code, receiver, action) tuple, resolved once at construction.
type Disperser struct {
	cfg    Config
	store  store.Store
	routes map[domain.Route]actionHandler
}

// New creates a disperser with its dispatch table bound to the configured
// contract names.
func New(cfg Config, st store.Store) *Disperser {
	d := &Disperser{cfg: cfg, store: st}

	d.routes = map[domain.Route]actionHandler{
		{Code: cfg.TokenContract, Receiver: cfg.TokenContract, Action: "transfer"}:   d.handleTransfer,
		{Code: cfg.TokenContract, Receiver: cfg.TokenContract, Action: "issue"}:      d.handleTokenEvents,
		{Code: cfg.TokenContract, Receiver: cfg.TokenContract, Action: "create"}:     d.handleTokenEvents,
		{Code: cfg.TokenContract, Receiver: cfg.VestingContract, Action: "transfer"}: d.handleVestingEvents,
		{Code: cfg.ControlContract, Receiver: cfg.ControlContract, Action: "changevest"}: d.handleChangeVest,
		{Code: cfg.SocialContract, Receiver: cfg.SocialContract, Action: "updatemeta"}:  d.handleUpdateMeta,
	}

	return d
}

// Disperse processes transactions strictly in delivery order. A nil
// transaction is logged and skipped without failing the batch; a handler
// failure aborts the remaining actions of that transaction and surfaces the
// error (redelivery is safe because all writes are idempotent upserts).
func (d *Disperser) Disperse(ctx context.Context, transactions []*domain.Transaction) error {
	for _, transaction := range transactions {
		if transaction == nil {
			logger.Warn("empty transaction, skipping")
			continue
		}
		if err := d.disperseTransaction(ctx, transaction); err != nil {
			return fmt.Errorf("failed to disperse transaction %s: %w", transaction.ID, err)
		}
	}
	return nil
}

func (d *Disperser) disperseTransaction(ctx context.Context, transaction *domain.Transaction) error {
	trx := trxContext{
		TrxID:     transaction.ID,
		Block:     transaction.BlockNum,
		Timestamp: transaction.BlockTime,
	}

	for i := range transaction.Actions {
		action := &transaction.Actions[i]

		handler, ok := d.routes[action.Route()]
		if !ok {
			continue
		}
		if !action.HasArgs() {
			return domain.InvalidActionObject()
		}
		if err := handler(ctx, action, trx); err != nil {
			return err
		}
	}
	return nil
}

type transferArgs struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Quantity string `json:"quantity"`
	Memo     string `json:"memo"`
}

func (d *Disperser) handleTransfer(ctx context.Context, action *domain.Action, trx trxContext) error {
	var args transferArgs
	if err := json.Unmarshal(action.Args, &args); err != nil {
		return domain.InvalidActionObject()
	}

	transfer := &schema.Transfer{
		TrxID:     trx.TrxID,
		Block:     trx.Block,
		Timestamp: trx.Timestamp,
		Sender:    args.From,
		Receiver:  args.To,
		Quantity:  args.Quantity,
		Memo:      args.Memo,
	}
	if err := d.store.CreateTransfer(ctx, transfer); err != nil {
		return err
	}

	logger.Info("created transfer record",
		zap.String("trx_id", trx.TrxID),
		zap.String("sender", args.From),
		zap.String("receiver", args.To),
		zap.String("quantity", args.Quantity))

	return d.handleTokenEvents(ctx, action, trx)
}

// handleTokenEvents recurses into an action's nested events as balance and
// currency updates.
func (d *Disperser) handleTokenEvents(ctx context.Context, action *domain.Action, _ trxContext) error {
	for i := range action.Events {
		event := &action.Events[i]
		if err := d.handleBalanceEvent(ctx, event); err != nil {
			return err
		}
		if err := d.handleCurrencyEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// handleVestingEvents recurses into an action's nested events as vesting
// stat and vesting balance updates.
func (d *Disperser) handleVestingEvents(ctx context.Context, action *domain.Action, _ trxContext) error {
	for i := range action.Events {
		event := &action.Events[i]
		if err := d.handleVestingStatEvent(ctx, event); err != nil {
			return err
		}
		if err := d.handleVestingBalanceEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

type changeVestArgs struct {
	Who  string `json:"who"`
	Diff string `json:"diff"`
}

func (d *Disperser) handleChangeVest(ctx context.Context, action *domain.Action, trx trxContext) error {
	var args changeVestArgs
	if err := json.Unmarshal(action.Args, &args); err != nil {
		return domain.InvalidActionObject()
	}

	change := &schema.VestingChange{
		TrxID:     trx.TrxID,
		Block:     trx.Block,
		Timestamp: trx.Timestamp,
		Who:       args.Who,
		Diff:      args.Diff,
	}
	if err := d.store.CreateVestingChange(ctx, change); err != nil {
		return err
	}

	logger.Info("created vesting change record",
		zap.String("trx_id", trx.TrxID),
		zap.String("who", args.Who),
		zap.String("diff", args.Diff))
	return nil
}

type updateMetaArgs struct {
	Account string `json:"account"`
	Meta    struct {
		Name string `json:"name"`
	} `json:"meta"`
}

func (d *Disperser) handleUpdateMeta(ctx context.Context, action *domain.Action, _ trxContext) error {
	var args updateMetaArgs
	if err := json.Unmarshal(action.Args, &args); err != nil {
		return domain.InvalidActionObject()
	}

	meta := &schema.UserMeta{
		UserID:   args.Account,
		Username: args.Meta.Name,
	}
	if err := d.store.SaveUserMeta(ctx, meta); err != nil {
		return err
	}

	logger.Info("upserted user meta",
		zap.String("user_id", args.Account),
		zap.String("username", args.Meta.Name))
	return nil
}

type balanceEventArgs struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// handleBalanceEvent upserts one symbol entry of an account's balance list.
// The list realizes a symbol-keyed map: it is scanned for an entry with the
// incoming amount's symbol, which is replaced in place when found and
// appended otherwise, keeping at most one entry per symbol.
func (d *Disperser) handleBalanceEvent(ctx context.Context, event *domain.Event) error {
	if event.Code != d.cfg.TokenContract || event.Event != "balance" {
		return nil
	}

	var args balanceEventArgs
	if err := json.Unmarshal(event.Args, &args); err != nil {
		return domain.InvalidActionObject()
	}

	sym, err := asset.SymbolOf(args.Balance)
	if err != nil {
		return err
	}

	balance, err := d.store.GetBalance(ctx, args.Account)
	if err != nil {
		return err
	}
	if balance == nil {
		balance = &schema.Balance{Name: args.Account}
	}

	replaced := false
	for i, entry := range balance.Balances {
		entrySym, err := asset.SymbolOf(entry)
		if err != nil {
			return err
		}
		if entrySym == sym {
			balance.Balances[i] = args.Balance
			replaced = true
		}
	}
	if !replaced {
		balance.Balances = append(balance.Balances, args.Balance)
	}

	if err := d.store.SaveBalance(ctx, balance); err != nil {
		return err
	}

	logger.Info("upserted balance entry",
		zap.String("account", args.Account),
		zap.String("balance", args.Balance))
	return nil
}

type currencyEventArgs struct {
	Issuer    string `json:"issuer"`
	Supply    string `json:"supply"`
	MaxSupply string `json:"max_supply"`
}

func (d *Disperser) handleCurrencyEvent(ctx context.Context, event *domain.Event) error {
	if event.Code != d.cfg.TokenContract || event.Event != "currency" {
		return nil
	}

	var args currencyEventArgs
	if err := json.Unmarshal(event.Args, &args); err != nil {
		return domain.InvalidActionObject()
	}

	sym, err := asset.SymbolOf(args.Supply)
	if err != nil {
		return err
	}

	token := &schema.Token{
		Sym:       sym,
		Issuer:    args.Issuer,
		Supply:    args.Supply,
		MaxSupply: args.MaxSupply,
	}
	if err := d.store.SaveToken(ctx, token); err != nil {
		return err
	}

	logger.Info("upserted token",
		zap.String("sym", sym),
		zap.String("supply", args.Supply))
	return nil
}

// handleVestingStatEvent upserts the singleton vesting stat with the event's
// raw payload. The contract-code filter is intentionally loose pending
// stabilization of the event source: any "stat" event is accepted.
func (d *Disperser) handleVestingStatEvent(ctx context.Context, event *domain.Event) error {
	if event.Event != "stat" {
		return nil
	}

	stat := &schema.VestingStat{Stat: datatypes.JSON(event.Args)}
	if err := d.store.SaveVestingStat(ctx, stat); err != nil {
		return err
	}

	logger.Info("upserted vesting stat", zap.ByteString("stat", event.Args))
	return nil
}

type vestingBalanceEventArgs struct {
	Account   string `json:"account"`
	Vesting   string `json:"vesting"`
	Delegated string `json:"delegated"`
	Received  string `json:"received"`
}

// handleVestingBalanceEvent upserts an account's vesting balance. Same loose
// code filter as the stat event.
func (d *Disperser) handleVestingBalanceEvent(ctx context.Context, event *domain.Event) error {
	if event.Event != "balance" {
		return nil
	}

	var args vestingBalanceEventArgs
	if err := json.Unmarshal(event.Args, &args); err != nil {
		return domain.InvalidActionObject()
	}

	balance := &schema.VestingBalance{
		Account:   args.Account,
		Vesting:   args.Vesting,
		Delegated: args.Delegated,
		Received:  args.Received,
	}
	if err := d.store.SaveVestingBalance(ctx, balance); err != nil {
		return err
	}

	logger.Info("upserted vesting balance",
		zap.String("account", args.Account),
		zap.String("vesting", args.Vesting))
	return nil
}
