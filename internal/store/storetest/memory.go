// Package storetest provides an in-memory Store implementation for tests.
// It mirrors the natural-key upsert semantics of the Postgres store, including
// the left join performed by the delegation proposal query.
package storetest

import (
	"context"
	"sort"
	"sync"

	"github.com/golos-tools/wallet-indexer/internal/store"
	"github.com/golos-tools/wallet-indexer/internal/store/schema"
)

// Memory is an in-memory store.Store.
type Memory struct {
	mu sync.Mutex

	Transfers       []schema.Transfer
	VestingChanges  []schema.VestingChange
	BalancesByName  map[string]*schema.Balance
	TokensBySym     map[string]*schema.Token
	VestingStat     *schema.VestingStat
	VestingBalances map[string]*schema.VestingBalance
	UserMetas       map[string]*schema.UserMeta
	Withdrawals     map[string]*schema.Withdrawal
	Proposals       []schema.DelegateVestingProposal
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		BalancesByName:  make(map[string]*schema.Balance),
		TokensBySym:     make(map[string]*schema.Token),
		VestingBalances: make(map[string]*schema.VestingBalance),
		UserMetas:       make(map[string]*schema.UserMeta),
		Withdrawals:     make(map[string]*schema.Withdrawal),
	}
}

var _ store.Store = (*Memory)(nil)

func (m *Memory) CreateTransfer(_ context.Context, transfer *schema.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transfers = append(m.Transfers, *transfer)
	return nil
}

func (m *Memory) CreateVestingChange(_ context.Context, change *schema.VestingChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VestingChanges = append(m.VestingChanges, *change)
	return nil
}

func (m *Memory) GetBalance(_ context.Context, name string) (*schema.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.BalancesByName[name]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (m *Memory) SaveBalance(_ context.Context, balance *schema.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *balance
	m.BalancesByName[balance.Name] = &copied
	return nil
}

func (m *Memory) GetToken(_ context.Context, sym string) (*schema.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.TokensBySym[sym]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (m *Memory) SaveToken(_ context.Context, token *schema.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *token
	m.TokensBySym[token.Sym] = &copied
	return nil
}

func (m *Memory) ListTokenSymbols(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	syms := make([]string, 0, len(m.TokensBySym))
	for sym := range m.TokensBySym {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms, nil
}

func (m *Memory) GetVestingStat(_ context.Context) (*schema.VestingStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.VestingStat == nil {
		return nil, nil
	}
	copied := *m.VestingStat
	return &copied, nil
}

func (m *Memory) SaveVestingStat(_ context.Context, stat *schema.VestingStat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *stat
	copied.Key = schema.VestingStatKey
	m.VestingStat = &copied
	return nil
}

func (m *Memory) GetVestingBalance(_ context.Context, account string) (*schema.VestingBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if vb, ok := m.VestingBalances[account]; ok {
		copied := *vb
		return &copied, nil
	}
	return nil, nil
}

func (m *Memory) SaveVestingBalance(_ context.Context, balance *schema.VestingBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *balance
	m.VestingBalances[balance.Account] = &copied
	return nil
}

func (m *Memory) GetUserMeta(_ context.Context, userID string) (*schema.UserMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meta, ok := m.UserMetas[userID]; ok {
		copied := *meta
		return &copied, nil
	}
	return nil, nil
}

func (m *Memory) SaveUserMeta(_ context.Context, meta *schema.UserMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *meta
	m.UserMetas[meta.UserID] = &copied
	return nil
}

func (m *Memory) GetWithdrawal(_ context.Context, owner string) (*schema.Withdrawal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.Withdrawals[owner]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, nil
}

func (m *Memory) ListDelegationProposals(_ context.Context, query store.DelegationProposalQuery) ([]store.DelegationProposalRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []store.DelegationProposalRow
	for _, p := range m.Proposals {
		if p.ToUserID != query.ToUserID || !p.Expiration.After(query.After) || !p.IsSignedByAuthor {
			continue
		}
		if query.CommunityEquals != (p.CommunityID == query.CommunityID) {
			continue
		}

		row := store.DelegationProposalRow{
			Proposer:   p.Proposer,
			ProposalID: p.ProposalID,
			Expiration: p.Expiration,
			UserID:     p.UserID,
			Data:       p.Data,
		}
		if meta, ok := m.UserMetas[p.UserID]; ok {
			username := meta.Username
			row.Username = &username
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Expiration.Before(rows[j].Expiration)
	})
	return rows, nil
}
