// Package query assembles read-side views over the indexed ledger: the
// composite account balance document and the pending delegation proposal
// listing.
package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golos-tools/wallet-indexer/internal/asset"
	"github.com/golos-tools/wallet-indexer/internal/chain"
	"github.com/golos-tools/wallet-indexer/internal/store"
	"github.com/golos-tools/wallet-indexer/internal/vesting"
)

// Balance view selectors. Anything else selects both sides.
const (
	TypeAll     = "all"
	TypeLiquid  = "liquid"
	TypeVesting = "vesting"
)

// CurrencyAll in a currency list expands to every known token symbol.
const CurrencyAll = "all"

// GolosCommunityID scopes delegation proposals between the main community
// and everything else.
const GolosCommunityID = "gls"

// Builder composes views from the store, the conversion engine, and the
// chain node.
type Builder struct {
	store  store.Store
	engine *vesting.Engine
	chain  chain.Client
}

// NewBuilder creates a query builder.
func NewBuilder(st store.Store, engine *vesting.Engine, chainClient chain.Client) *Builder {
	return &Builder{store: st, engine: engine, chain: chainClient}
}

// BalanceRequest selects which sides of an account's balance to assemble.
type BalanceRequest struct {
	// UserID is the account name
	UserID string
	// Currencies filters the liquid side to these symbols; CurrencyAll
	// expands to all known tokens
	Currencies []string
	// Type is TypeLiquid, TypeVesting, or anything else for both
	Type string
	// FetchStake attaches the chain node's stake info to the view
	FetchStake bool
}

// LiquidView maps currency symbols to bare quantity literals, separately for
// settled balances and pending payments.
type LiquidView struct {
	Balances map[string]string `json:"balances"`
	Payments map[string]string `json:"payments"`
}

// VestingView is the account's vesting position with every quantity in both
// units.
type VestingView struct {
	Total       vesting.AmountPair `json:"total"`
	OutDelegate vesting.AmountPair `json:"outDelegate"`
	InDelegated vesting.AmountPair `json:"inDelegated"`
	Withdraw    *vesting.Withdraw  `json:"withdraw,omitempty"`
}

// BalanceView is the composite balance document. A side suppressed by the
// request type, or absent from the ledger, is nil.
type BalanceView struct {
	UserID    string          `json:"userId"`
	Liquid    *LiquidView     `json:"liquid,omitempty"`
	Vesting   *VestingView    `json:"vesting,omitempty"`
	StakeInfo json.RawMessage `json:"stakeInfo,omitempty"`
}

// Balance assembles the account's balance view.
func (b *Builder) Balance(ctx context.Context, req BalanceRequest) (*BalanceView, error) {
	view := &BalanceView{UserID: req.UserID}

	if req.Type != TypeVesting {
		liquid, err := b.liquidView(ctx, req.UserID, req.Currencies)
		if err != nil {
			return nil, err
		}
		view.Liquid = liquid
	}

	if req.Type != TypeLiquid {
		position, err := b.engine.Position(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if position != nil {
			view.Vesting = &VestingView{
				Total:       position.Vesting,
				OutDelegate: position.Delegated,
				InDelegated: position.Received,
				Withdraw:    position.Withdraw,
			}
		}
	}

	if req.FetchStake {
		account, err := b.chain.GetAccount(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		view.StakeInfo = account.StakeInfo
	}

	return view, nil
}

// liquidView filters the account's balance document down to the requested
// symbols. Each entry's quantity is exposed without its symbol suffix; the
// symbol becomes the map key.
func (b *Builder) liquidView(ctx context.Context, userID string, currencies []string) (*LiquidView, error) {
	wanted, err := b.resolveCurrencies(ctx, currencies)
	if err != nil {
		return nil, err
	}

	view := &LiquidView{
		Balances: make(map[string]string),
		Payments: make(map[string]string),
	}

	balance, err := b.store.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return view, nil
	}

	if err := collectQuantities(view.Balances, balance.Balances, wanted); err != nil {
		return nil, err
	}
	if err := collectQuantities(view.Payments, balance.Payments, wanted); err != nil {
		return nil, err
	}
	return view, nil
}

// resolveCurrencies returns the requested symbol set. The CurrencyAll marker
// expands to every symbol in the tokens table.
func (b *Builder) resolveCurrencies(ctx context.Context, currencies []string) (map[string]bool, error) {
	for _, currency := range currencies {
		if currency == CurrencyAll {
			syms, err := b.store.ListTokenSymbols(ctx)
			if err != nil {
				return nil, err
			}
			currencies = syms
			break
		}
	}

	wanted := make(map[string]bool, len(currencies))
	for _, currency := range currencies {
		wanted[currency] = true
	}
	return wanted, nil
}

func collectQuantities(dst map[string]string, entries []string, wanted map[string]bool) error {
	for _, entry := range entries {
		parsed, err := asset.ParseDecimal(entry)
		if err != nil {
			return err
		}
		if !wanted[parsed.Symbol] {
			continue
		}
		dst[parsed.Symbol] = parsed.Raw
	}
	return nil
}

// DelegationProposals lists pending delegation proposals addressed to the
// account, scoped by the calling application: the main community app sees
// its own proposals, every other app sees the rest.
func (b *Builder) DelegationProposals(ctx context.Context, app, userID string) ([]store.DelegationProposalRow, error) {
	rows, err := b.store.ListDelegationProposals(ctx, store.DelegationProposalQuery{
		ToUserID:        userID,
		After:           time.Now(),
		CommunityID:     GolosCommunityID,
		CommunityEquals: app == GolosCommunityID,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.DelegationProposalRow{}
	}
	return rows, nil
}
