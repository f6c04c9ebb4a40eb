package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oficina-erp/payroll-engine/internal/fixtures"
	"github.com/oficina-erp/payroll-engine/internal/service/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time { return time.Date(year, month, 10, 9, 0, 0, 0, time.UTC) }
}

func TestTableCheck_CurrentYearConfigured(t *testing.T) {
	check := NewTableCheck(tax.NewResolver(nil, fixtures.GetBracketTables()), fixedClock(2025, time.June))

	missing, err := check.Missing(context.Background())
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestTableCheck_DecemberLooksAhead(t *testing.T) {
	check := NewTableCheck(tax.NewResolver(nil, fixtures.GetBracketTables()), fixedClock(2025, time.December))

	missing, err := check.Missing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2026}, missing)
}

func TestTableCheck_NoTables(t *testing.T) {
	check := NewTableCheck(tax.NewResolver(nil, nil), fixedClock(2025, time.June))

	err := check.Run(context.Background())
	assert.Error(t, err)
}

func TestScheduler_RunOnceAndStop(t *testing.T) {
	var calls atomic.Int32
	s := NewScheduler()
	s.AddJob("counter", time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	s.AddJob("failing", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), calls.Load())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	s.Wait()
}
