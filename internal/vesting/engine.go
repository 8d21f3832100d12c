// Package vesting computes the share↔token exchange implied by two
// independently stored global counters: the liquid-token balance of the
// designated vesting-pool account and the total vesting share supply.
package vesting

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/golos-tools/wallet-indexer/internal/asset"
	"github.com/golos-tools/wallet-indexer/internal/domain"
	"github.com/golos-tools/wallet-indexer/internal/store"
)

// Fixed scales of the two semantic quantities. The scale is not
// self-describing from an asset string alone, so inputs are validated
// against these.
const (
	// TokenDecs is the scale of the liquid token (e.g. GOLOS)
	TokenDecs int32 = 3
	// ShareDecs is the scale of the vesting share unit (e.g. GESTS)
	ShareDecs int32 = 6
)

// Config binds the engine to the pool account and currency symbols. It is
// constructed once at startup and passed explicitly.
type Config struct {
	// PoolAccount is the account holding the liquid side of the exchange rate
	PoolAccount string
	// TokenSymbol is the liquid token symbol
	TokenSymbol string
	// ShareSymbol is the vesting share symbol
	ShareSymbol string
	// WithdrawInterval is added to a stored next_payout when projecting a
	// withdrawal summary
	WithdrawInterval time.Duration
}

// Engine converts between vesting shares and the liquid token.
//
// The two counters are read by independent store calls with no transactional
// guarantee; the reads may observe different points of the update timeline.
// That weak-consistency window is accepted behavior, not a defect to fix.
type Engine struct {
	cfg   Config
	store store.Store
}

// NewEngine creates a conversion engine over the given store.
func NewEngine(cfg Config, st store.Store) *Engine {
	return &Engine{cfg: cfg, store: st}
}

// Info returns the raw vesting stat payload, or nil when none exists yet.
func (e *Engine) Info(ctx context.Context) (json.RawMessage, error) {
	stat, err := e.store.GetVestingStat(ctx)
	if err != nil {
		return nil, err
	}
	if stat == nil {
		return nil, nil
	}
	return json.RawMessage(stat.Stat), nil
}

// SharesToToken converts share-unit asset text into liquid-token asset text
// at the current exchange rate. The input scale must be 6; the result carries
// scale 3 and the configured token symbol.
func (e *Engine) SharesToToken(ctx context.Context, shares string) (string, error) {
	a, err := asset.Decode(shares)
	if err != nil {
		return "", err
	}
	if a.Decs != ShareDecs {
		return "", domain.InvalidScale(a.Decs, ShareDecs)
	}

	pool, supply, err := e.supplyAndBalance(ctx)
	if err != nil {
		return "", err
	}

	amount := convertAmount(a.Amount, pool, supply)
	return asset.FormatQuantity(amount, TokenDecs, e.cfg.TokenSymbol), nil
}

// TokenToShares converts liquid-token asset text into share-unit asset text,
// the inverse ratio of SharesToToken. The input scale must be 3; the result
// carries scale 6 and the configured share symbol.
func (e *Engine) TokenToShares(ctx context.Context, tokens string) (string, error) {
	a, err := asset.Decode(tokens)
	if err != nil {
		return "", err
	}
	if a.Decs != TokenDecs {
		return "", domain.InvalidScale(a.Decs, TokenDecs)
	}

	pool, supply, err := e.supplyAndBalance(ctx)
	if err != nil {
		return "", err
	}

	amount := convertAmount(a.Amount, supply, pool)
	return asset.FormatQuantity(amount, ShareDecs, e.cfg.ShareSymbol), nil
}

// supplyAndBalance reads the two global counters backing the exchange rate:
// the pool account's liquid-token integer units and the total share supply's
// integer units. Either one missing fails with a data-absent error.
func (e *Engine) supplyAndBalance(ctx context.Context) (pool int64, supply int64, err error) {
	stat, err := e.store.GetVestingStat(ctx)
	if err != nil {
		return 0, 0, err
	}
	if stat == nil {
		return 0, 0, domain.DataAbsent("no records about vesting stats in base")
	}

	supplyText, err := statSupply(stat.Stat)
	if err != nil {
		return 0, 0, err
	}
	supplyAsset, err := asset.Decode(supplyText)
	if err != nil {
		return 0, 0, err
	}

	balance, err := e.store.GetBalance(ctx, e.cfg.PoolAccount)
	if err != nil {
		return 0, 0, err
	}
	if balance == nil {
		return 0, 0, domain.DataAbsent("no %s balance for %s account", e.cfg.TokenSymbol, e.cfg.PoolAccount)
	}

	var poolText string
	for _, entry := range balance.Balances {
		sym, err := asset.SymbolOf(entry)
		if err != nil {
			return 0, 0, err
		}
		if sym == e.cfg.TokenSymbol {
			poolText = entry
			break
		}
	}
	if poolText == "" {
		return 0, 0, domain.DataAbsent("no %s balance for %s account", e.cfg.TokenSymbol, e.cfg.PoolAccount)
	}

	poolAsset, err := asset.Decode(poolText)
	if err != nil {
		return 0, 0, err
	}
	if supplyAsset.Amount == 0 {
		return 0, 0, domain.DataAbsent("vesting share supply is zero")
	}
	if poolAsset.Amount == 0 {
		return 0, 0, domain.DataAbsent("vesting pool balance is zero")
	}

	return poolAsset.Amount, supplyAsset.Amount, nil
}

// statSupply extracts the total-supply asset text from the raw stat payload.
// The feed has emitted the payload both as a bare asset string and as an
// object carrying a "supply" field; both forms are accepted.
func statSupply(raw []byte) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var obj struct {
		Supply string `json:"supply"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Supply != "" {
		return obj.Supply, nil
	}

	return "", domain.DataAbsent("vesting stat payload carries no supply")
}

// convertAmount computes floor(base * multiplier / divider) on integer units,
// truncating toward zero. The truncation decides which side of a conversion
// keeps the remainder.
func convertAmount(base, multiplier, divider int64) int64 {
	product := decimal.NewFromInt(base).Mul(decimal.NewFromInt(multiplier))
	quotient, _ := product.QuoRem(decimal.NewFromInt(divider), 0)
	return quotient.IntPart()
}
