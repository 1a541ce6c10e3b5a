package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membergate/membergate/internal/domain/payment"
	"github.com/membergate/membergate/internal/shared/logger"
)

type mapCache struct {
	values  map[string]int64
	getErr  error
	cleared int
}

func (m *mapCache) Get(_ context.Context, args string) (int64, bool, error) {
	if m.getErr != nil {
		return 0, false, m.getErr
	}
	v, ok := m.values[args]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, args string, total int64) error {
	m.values[args] = total
	return nil
}

func (m *mapCache) Invalidate(context.Context) error {
	m.values = map[string]int64{}
	m.cleared++
	return nil
}

func seedPayment(t *testing.T, store *paymentStore, userID uint, amount int64, level string, date time.Time) {
	t.Helper()
	p, err := payment.NewPayment(payment.PaymentParams{
		UserID:           userID,
		Amount:           amount,
		Date:             date,
		SubscriptionName: level,
		Type:             payment.TypeManual,
	})
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), p))
}

func TestEarningsQuery_CacheArgsVaryWithQuery(t *testing.T) {
	keys := map[string]bool{}
	for _, q := range []EarningsQuery{
		{},
		{LevelName: "Gold"},
		{UserID: 3},
		{Year: 2026},
		{Year: 2026, Month: 3},
	} {
		keys[q.CacheArgs()] = true
	}
	assert.Len(t, keys, 5)
	assert.Equal(t, "earnings=1,subscription=,user_id=0,date=", EarningsQuery{}.CacheArgs())
}

func TestEarningsService_CachesPerQuery(t *testing.T) {
	ctx := context.Background()
	store := newPaymentStore()
	seedPayment(t, store, 1, 1000, "Gold", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	seedPayment(t, store, 2, 500, "Silver", time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC))
	seedPayment(t, store, 1, 250, "Gold", time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC))

	cache := &mapCache{values: map[string]int64{}}
	svc := NewEarningsService(store, cache, nil, logger.NewNop())

	total, err := svc.Total(ctx, EarningsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1750), total)

	total, err = svc.Total(ctx, EarningsQuery{LevelName: "Gold"})
	require.NoError(t, err)
	assert.Equal(t, int64(1250), total)

	total, err = svc.Total(ctx, EarningsQuery{Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), total)

	total, err = svc.Total(ctx, EarningsQuery{Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), total)
	assert.Len(t, cache.values, 4)

	seedPayment(t, store, 3, 10000, "Gold", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	total, err = svc.Total(ctx, EarningsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1750), total, "served from cache until invalidated")

	require.NoError(t, svc.Invalidate(ctx))
	total, err = svc.Total(ctx, EarningsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(11750), total)
}

func TestEarningsService_CacheFailureFallsBack(t *testing.T) {
	store := newPaymentStore()
	seedPayment(t, store, 1, 700, "Gold", time.Now())

	cache := &mapCache{values: map[string]int64{}, getErr: errors.New("redis down")}
	svc := NewEarningsService(store, cache, nil, logger.NewNop())

	total, err := svc.Total(context.Background(), EarningsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(700), total)
}
