package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/membergate/membergate/internal/domain/payment"
	"github.com/membergate/membergate/internal/shared/biztime"
	"github.com/membergate/membergate/internal/shared/logger"
)

// EarningsQuery selects the payments summed by EarningsService.Total. Zero
// fields mean "any"; Month is only used together with Year.
type EarningsQuery struct {
	LevelName string `form:"subscription"`
	UserID    uint   `form:"user_id"`
	Year      int    `form:"year" validate:"omitempty,gte=1970,lte=9999"`
	Month     int    `form:"month" validate:"omitempty,gte=1,lte=12"`
}

// CacheArgs is the canonical form of the query the cache key is derived from.
func (q EarningsQuery) CacheArgs() string {
	date := ""
	if q.Year > 0 {
		date = fmt.Sprintf("%04d", q.Year)
		if q.Month > 0 {
			date += fmt.Sprintf("-%02d", q.Month)
		}
	}
	return fmt.Sprintf("earnings=1,subscription=%s,user_id=%d,date=%s", q.LevelName, q.UserID, date)
}

func (q EarningsQuery) filter() payment.EarningsFilter {
	f := payment.EarningsFilter{SubscriptionName: q.LevelName, UserID: q.UserID}
	switch {
	case q.Year > 0 && q.Month > 0:
		from := biztime.StartOfMonthUTC(q.Year, time.Month(q.Month))
		to := biztime.EndOfMonthUTC(q.Year, time.Month(q.Month))
		f.From, f.To = &from, &to
	case q.Year > 0:
		from := biztime.StartOfYearUTC(q.Year)
		to := biztime.EndOfYearUTC(q.Year)
		f.From, f.To = &from, &to
	}
	return f
}

// EarningsCache stores totals by query. Invalidate drops every stored total
// at once.
type EarningsCache interface {
	Get(ctx context.Context, args string) (int64, bool, error)
	Set(ctx context.Context, args string, total int64) error
	Invalidate(ctx context.Context) error
}

type EarningsMetrics interface {
	IncEarningsLookup(cache string)
}

// EarningsService sums payments and caches the totals until a payment
// changes.
type EarningsService struct {
	payments payment.Repository
	cache    EarningsCache
	metrics  EarningsMetrics
	logger   logger.Interface
}

// NewEarningsService creates an EarningsService. A nil cache disables
// caching; a nil metrics disables lookup counters.
func NewEarningsService(payments payment.Repository, cache EarningsCache, metrics EarningsMetrics, logger logger.Interface) *EarningsService {
	return &EarningsService{payments: payments, cache: cache, metrics: metrics, logger: logger}
}

// Total returns the sum of complete payments matching q, in minor units.
// Cache failures fall back to the database.
func (s *EarningsService) Total(ctx context.Context, q EarningsQuery) (int64, error) {
	args := q.CacheArgs()

	if s.cache != nil {
		total, ok, err := s.cache.Get(ctx, args)
		switch {
		case err != nil:
			s.logger.Warnw("earnings cache read failed", "error", err)
			s.record("error")
		case ok:
			s.record("hit")
			return total, nil
		default:
			s.record("miss")
		}
	}

	total, err := s.payments.SumEarnings(ctx, q.filter())
	if err != nil {
		s.logger.Errorw("failed to sum earnings", "error", err, "query", args)
		return 0, fmt.Errorf("failed to sum earnings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, args, total); err != nil {
			s.logger.Warnw("earnings cache write failed", "error", err)
		}
	}
	return total, nil
}

// Invalidate drops all cached totals.
func (s *EarningsService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *EarningsService) record(result string) {
	if s.metrics != nil {
		s.metrics.IncEarningsLookup(result)
	}
}
