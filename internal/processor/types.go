package processor

import (
	"sync"
	"time"

	"github.com/mauv0809/court-score/internal/metrics"
)

// resultNotificationWindow bounds how old a match may be and still be
// announced. Backfilled history updates counters silently.
const resultNotificationWindow = 24 * time.Hour

// Processor keeps the derived player counters in line with the stored matches.
type Processor struct {
	store    Store
	notifier Notifier
	metrics  metrics.Metrics
	now      func() time.Time

	// announced remembers delivered result notifications so a redelivered
	// event is not posted twice. Keyed by announcementKey.
	mu        sync.Mutex
	announced map[string]time.Time
}
