package vesting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/golos-tools/wallet-indexer/internal/domain"
	"github.com/golos-tools/wallet-indexer/internal/store/schema"
	"github.com/golos-tools/wallet-indexer/internal/store/storetest"
	"github.com/golos-tools/wallet-indexer/internal/vesting"
)

func testConfig() vesting.Config {
	return vesting.Config{
		PoolAccount:      "gls.vesting",
		TokenSymbol:      "GOLOS",
		ShareSymbol:      "GESTS",
		WithdrawInterval: 7 * 24 * time.Hour,
	}
}

// seedCounters installs the two global counters the exchange rate is
// computed from: pool balance and total share supply.
func seedCounters(t *testing.T, st *storetest.Memory, pool, supply string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, st.SaveBalance(ctx, &schema.Balance{
		Name:     "gls.vesting",
		Balances: []string{pool},
	}))
	require.NoError(t, st.SaveVestingStat(ctx, &schema.VestingStat{
		Stat: datatypes.JSON(`{"supply":"` + supply + `"}`),
	}))
}

func TestSharesToToken(t *testing.T) {
	st := storetest.NewMemory()
	seedCounters(t, st, "1000.000 GOLOS", "2000.000000 GESTS")
	engine := vesting.NewEngine(testConfig(), st)

	got, err := engine.SharesToToken(context.Background(), "500.000000 GESTS")
	require.NoError(t, err)
	assert.Equal(t, "250.000 GOLOS", got)
}

func TestTokenToShares(t *testing.T) {
	st := storetest.NewMemory()
	seedCounters(t, st, "1000.000 GOLOS", "2000.000000 GESTS")
	engine := vesting.NewEngine(testConfig(), st)

	got, err := engine.TokenToShares(context.Background(), "250.000 GOLOS")
	require.NoError(t, err)
	assert.Equal(t, "500.000000 GESTS", got)
}

func TestConversionTruncatesTowardZero(t *testing.T) {
	// 5.000000 GESTS * 1000.000 GOLOS / 3000.000000 GESTS = 1.666666... GOLOS;
	// the fractional remainder is dropped, never rounded up.
	st := storetest.NewMemory()
	seedCounters(t, st, "1000.000 GOLOS", "3000.000000 GESTS")
	engine := vesting.NewEngine(testConfig(), st)

	got, err := engine.SharesToToken(context.Background(), "5.000000 GESTS")
	require.NoError(t, err)
	assert.Equal(t, "1.666 GOLOS", got)
}

func TestSharesToToken_StatAsBareAssetString(t *testing.T) {
	st := storetest.NewMemory()
	ctx := context.Background()
	require.NoError(t, st.SaveBalance(ctx, &schema.Balance{
		Name:     "gls.vesting",
		Balances: []string{"1000.000 GOLOS"},
	}))
	require.NoError(t, st.SaveVestingStat(ctx, &schema.VestingStat{
		Stat: datatypes.JSON(`"2000.000000 GESTS"`),
	}))
	engine := vesting.NewEngine(testConfig(), st)

	got, err := engine.SharesToToken(ctx, "500.000000 GESTS")
	require.NoError(t, err)
	assert.Equal(t, "250.000 GOLOS", got)
}

func TestConversion_ScaleEnforcement(t *testing.T) {
	st := storetest.NewMemory()
	seedCounters(t, st, "1000.000 GOLOS", "2000.000000 GESTS")
	engine := vesting.NewEngine(testConfig(), st)
	ctx := context.Background()

	_, err := engine.SharesToToken(ctx, "500.000 GESTS")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidScale))

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.CodeWrongArguments, de.Code)

	_, err = engine.TokenToShares(ctx, "250.000000 GOLOS")
	assert.True(t, errors.Is(err, domain.ErrInvalidScale))
}

func TestConversion_DataAbsent(t *testing.T) {
	ctx := context.Background()

	t.Run("no vesting stat", func(t *testing.T) {
		st := storetest.NewMemory()
		require.NoError(t, st.SaveBalance(ctx, &schema.Balance{
			Name:     "gls.vesting",
			Balances: []string{"1000.000 GOLOS"},
		}))
		engine := vesting.NewEngine(testConfig(), st)

		_, err := engine.SharesToToken(ctx, "500.000000 GESTS")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDataAbsent))

		var de *domain.Error
		require.True(t, errors.As(err, &de))
		assert.Equal(t, domain.CodeDataAbsent, de.Code)
	})

	t.Run("no pool balance document", func(t *testing.T) {
		st := storetest.NewMemory()
		require.NoError(t, st.SaveVestingStat(ctx, &schema.VestingStat{
			Stat: datatypes.JSON(`{"supply":"2000.000000 GESTS"}`),
		}))
		engine := vesting.NewEngine(testConfig(), st)

		_, err := engine.TokenToShares(ctx, "250.000 GOLOS")
		assert.True(t, errors.Is(err, domain.ErrDataAbsent))
	})

	t.Run("pool balance lacks token symbol entry", func(t *testing.T) {
		st := storetest.NewMemory()
		require.NoError(t, st.SaveBalance(ctx, &schema.Balance{
			Name:     "gls.vesting",
			Balances: []string{"1.0000 CYBER"},
		}))
		require.NoError(t, st.SaveVestingStat(ctx, &schema.VestingStat{
			Stat: datatypes.JSON(`{"supply":"2000.000000 GESTS"}`),
		}))
		engine := vesting.NewEngine(testConfig(), st)

		_, err := engine.SharesToToken(ctx, "500.000000 GESTS")
		assert.True(t, errors.Is(err, domain.ErrDataAbsent))
	})
}

func TestInfo(t *testing.T) {
	st := storetest.NewMemory()
	engine := vesting.NewEngine(testConfig(), st)
	ctx := context.Background()

	info, err := engine.Info(ctx)
	require.NoError(t, err)
	assert.Nil(t, info)

	require.NoError(t, st.SaveVestingStat(ctx, &schema.VestingStat{
		Stat: datatypes.JSON(`{"supply":"2000.000000 GESTS"}`),
	}))

	info, err = engine.Info(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"supply":"2000.000000 GESTS"}`, string(info))
}

func TestPosition(t *testing.T) {
	st := storetest.NewMemory()
	seedCounters(t, st, "1000.000 GOLOS", "2000.000000 GESTS")
	engine := vesting.NewEngine(testConfig(), st)
	ctx := context.Background()

	require.NoError(t, st.SaveVestingBalance(ctx, &schema.VestingBalance{
		Account:   "alice",
		Vesting:   "500.000000 GESTS",
		Delegated: "100.000000 GESTS",
		Received:  "0.000000 GESTS",
	}))

	position, err := engine.Position(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, position)

	assert.Equal(t, "alice", position.Account)
	assert.Equal(t, vesting.AmountPair{Shares: "500.000000", Tokens: "250.000"}, position.Vesting)
	assert.Equal(t, vesting.AmountPair{Shares: "100.000000", Tokens: "50.000"}, position.Delegated)
	assert.Equal(t, vesting.AmountPair{Shares: "0.000000", Tokens: "0.000"}, position.Received)
	assert.Nil(t, position.Withdraw)
}

func TestPosition_WithWithdrawal(t *testing.T) {
	st := storetest.NewMemory()
	seedCounters(t, st, "1000.000 GOLOS", "2000.000000 GESTS")
	engine := vesting.NewEngine(testConfig(), st)
	ctx := context.Background()

	require.NoError(t, st.SaveVestingBalance(ctx, &schema.VestingBalance{
		Account:   "bob",
		Vesting:   "500.000000 GESTS",
		Delegated: "0.000000 GESTS",
		Received:  "0.000000 GESTS",
	}))

	nextPayout := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	st.Withdrawals["bob"] = &schema.Withdrawal{
		Owner:             "bob",
		Quantity:          "10.000000 GESTS",
		ToWithdraw:        "130.000000 GESTS",
		RemainingPayments: 13,
		NextPayout:        nextPayout,
	}

	position, err := engine.Position(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, position.Withdraw)

	assert.Equal(t, "5.000 GOLOS", position.Withdraw.Quantity)
	assert.Equal(t, "65.000 GOLOS", position.Withdraw.ToWithdraw)
	assert.Equal(t, 13, position.Withdraw.RemainingPayments)
	assert.Equal(t, nextPayout.Add(7*24*time.Hour), position.Withdraw.NextPayout)
}

func TestPosition_NoVestingBalance(t *testing.T) {
	st := storetest.NewMemory()
	seedCounters(t, st, "1000.000 GOLOS", "2000.000000 GESTS")
	engine := vesting.NewEngine(testConfig(), st)

	position, err := engine.Position(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, position)
}
