// Package station keeps track of the SAC/SIC pairs seen in decoded records.
package station

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"goasterix/internal/asterix"
)

// DefaultTTL is how long a silent station is remembered
const DefaultTTL = 5 * time.Minute

// Station is one data source of one category
type Station struct {
	Category  uint8
	Source    asterix.DataSource
	FirstSeen time.Time
	LastSeen  time.Time
	Records   uint64
}

// Tracker remembers stations for a TTL after their last record
type Tracker struct {
	cache  *cache.Cache
	logger *logrus.Logger
	mutex  sync.Mutex
}

// NewTracker creates a tracker. A ttl <= 0 selects DefaultTTL.
func NewTracker(ttl time.Duration, logger *logrus.Logger) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Tracker{
		cache:  cache.New(ttl, ttl),
		logger: logger,
	}
}

func key(category uint8, src asterix.DataSource) string {
	return fmt.Sprintf("%03d:%s", category, src)
}

// Observe records a message from src at time at. It returns true when the
// station was not seen within the TTL.
func (t *Tracker) Observe(category uint8, src asterix.DataSource, at time.Time) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	k := key(category, src)
	if v, found := t.cache.Get(k); found {
		st := v.(*Station)
		st.LastSeen = at
		st.Records++
		t.cache.SetDefault(k, st)
		return false
	}

	t.cache.SetDefault(k, &Station{
		Category:  category,
		Source:    src,
		FirstSeen: at,
		LastSeen:  at,
		Records:   1,
	})
	t.logger.WithFields(logrus.Fields{
		"category": category,
		"sac":      src.SAC,
		"sic":      src.SIC,
	}).Info("New station")
	return true
}

// Stations lists the live stations ordered by category, SAC and SIC
func (t *Tracker) Stations() []Station {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	items := t.cache.Items()
	out := make([]Station, 0, len(items))
	for _, item := range items {
		out = append(out, *item.Object.(*Station))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Source.SAC != b.Source.SAC {
			return a.Source.SAC < b.Source.SAC
		}
		return a.Source.SIC < b.Source.SIC
	})
	return out
}

// Len returns the number of live stations
func (t *Tracker) Len() int {
	return t.cache.ItemCount()
}
