package vesting

import (
	"context"
	"time"

	"github.com/golos-tools/wallet-indexer/internal/asset"
)

// AmountPair is one vesting quantity in both units: the share-unit literal
// and its liquid-token equivalent at the current exchange rate. JSON keys
// keep the currency-symbol names external consumers expect.
type AmountPair struct {
	Shares string `json:"GESTS"`
	Tokens string `json:"GOLOS"`
}

// Withdraw summarizes an account's withdrawal schedule with quantities
// converted to the liquid token. NextPayout is the stored payout timestamp
// advanced by the configured interval; the projection is pure date
// arithmetic, nothing is written back.
type Withdraw struct {
	Quantity          string    `json:"quantity"`
	RemainingPayments int       `json:"remainingPayments"`
	NextPayout        time.Time `json:"nextPayout"`
	ToWithdraw        string    `json:"toWithdraw"`
}

// Position is an account's assembled vesting view.
type Position struct {
	Account   string     `json:"account"`
	Vesting   AmountPair `json:"vesting"`
	Delegated AmountPair `json:"delegated"`
	Received  AmountPair `json:"received"`
	Withdraw  *Withdraw  `json:"withdraw,omitempty"`
}

// Position reads the account's vesting balance, converts each share quantity
// to its token equivalent, and attaches a withdrawal summary when a
// withdrawal record exists. Returns nil when the account has no vesting
// balance at all.
func (e *Engine) Position(ctx context.Context, account string) (*Position, error) {
	balance, err := e.store.GetVestingBalance(ctx, account)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, nil
	}

	position := &Position{Account: account}

	if position.Vesting, err = e.amountPair(ctx, balance.Vesting); err != nil {
		return nil, err
	}
	if position.Delegated, err = e.amountPair(ctx, balance.Delegated); err != nil {
		return nil, err
	}
	if position.Received, err = e.amountPair(ctx, balance.Received); err != nil {
		return nil, err
	}

	withdrawal, err := e.store.GetWithdrawal(ctx, account)
	if err != nil {
		return nil, err
	}
	if withdrawal != nil {
		quantity, err := e.SharesToToken(ctx, withdrawal.Quantity)
		if err != nil {
			return nil, err
		}
		toWithdraw, err := e.SharesToToken(ctx, withdrawal.ToWithdraw)
		if err != nil {
			return nil, err
		}

		position.Withdraw = &Withdraw{
			Quantity:          quantity,
			RemainingPayments: withdrawal.RemainingPayments,
			NextPayout:        withdrawal.NextPayout.Add(e.cfg.WithdrawInterval),
			ToWithdraw:        toWithdraw,
		}
	}

	return position, nil
}

// amountPair splits one share-unit asset text into its two-unit view.
func (e *Engine) amountPair(ctx context.Context, shares string) (AmountPair, error) {
	parsed, err := asset.ParseDecimal(shares)
	if err != nil {
		return AmountPair{}, err
	}

	tokens, err := e.SharesToToken(ctx, shares)
	if err != nil {
		return AmountPair{}, err
	}
	tokensParsed, err := asset.ParseDecimal(tokens)
	if err != nil {
		return AmountPair{}, err
	}

	return AmountPair{Shares: parsed.Raw, Tokens: tokensParsed.Raw}, nil
}
