package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/northbridge-support/triage/internal/store"
)

// HolidayCache is an in-memory cache keyed by (region, year), per spec
// §5 ("Holiday lookups may be served from an in-memory cache keyed by
// (region, date)"). The filtering shape — fetch a region's full list
// once, then answer per-date membership client-side — is adapted from
// the donor alexandria.HTTPClient's ListDevices/GetDevicesByOwner
// pattern (fetch-all, filter-in-process).
type HolidayCache struct {
	db store.Store

	mu    sync.Mutex
	byKey map[cacheKey][]store.Holiday
}

type cacheKey struct {
	region string
	year   int
}

func NewHolidayCache(db store.Store) *HolidayCache {
	return &HolidayCache{db: db, byKey: make(map[cacheKey][]store.Holiday)}
}

// Check returns (regionalHoliday, globalHoliday) for the given region on
// the given date. Regional short-circuits global per spec's Data Model
// invariant — but both are returned as independent booleans, per §9's
// design note not to collapse them into a single "available" flag.
func (h *HolidayCache) Check(ctx context.Context, region string, today time.Time) (regional, global bool, err error) {
	key := cacheKey{region: region, year: today.Year()}

	h.mu.Lock()
	holidays, ok := h.byKey[key]
	h.mu.Unlock()

	if !ok {
		holidays, err = h.db.GetHolidays(ctx, region, today.Year())
		if err != nil {
			return false, false, err
		}
		h.mu.Lock()
		h.byKey[key] = holidays
		h.mu.Unlock()
	}

	dateStr := today.Format("2006-01-02")
	for _, hol := range holidays {
		if hol.Date.Format("2006-01-02") != dateStr {
			continue
		}
		if hol.Region == "GLOBAL" {
			global = true
		} else {
			regional = true
		}
	}
	return regional, global, nil
}
