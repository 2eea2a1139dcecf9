package schedule

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// availabilityCache memoizes ComputeAvailability results. Keys fold in a
// schedule version that the service bumps on every mutation, so stale entries
// age out of the LRU instead of being swept.
type availabilityCache struct {
	entries *lru.Cache[string, []EmployeeAvailability]
}

func newAvailabilityCache(size int) (*availabilityCache, error) {
	entries, err := lru.New[string, []EmployeeAvailability](size)
	if err != nil {
		return nil, err
	}
	return &availabilityCache{entries: entries}, nil
}

// cacheKey is deterministic for a same-day request within one 15-minute
// window: "today" results depend on now, so now is folded in rounded to the
// slot step.
func cacheKey(now, date time.Time, jobTitle string, durationMinutes int, version uint64) string {
	day := date.Format("2006-01-02")
	if sameDate(now, date) {
		return fmt.Sprintf("%s|%s|%d|%d|%d", day, jobTitle, durationMinutes, version, nextQuarterHour(now).Unix())
	}
	return fmt.Sprintf("%s|%s|%d|%d", day, jobTitle, durationMinutes, version)
}

func (c *availabilityCache) get(key string) ([]EmployeeAvailability, bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(key)
}

func (c *availabilityCache) put(key string, value []EmployeeAvailability) {
	if c == nil {
		return
	}
	c.entries.Add(key, value)
}
