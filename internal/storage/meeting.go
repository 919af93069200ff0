package storage

import (
	"fmt"
	"regexp"
	"sync"
	"time"
)

// MeetingIDPrefix starts every meeting identifier.
const MeetingIDPrefix = "meeting_"

// MeetingIDPattern matches identifiers produced by FormatMeetingID.
var MeetingIDPattern = regexp.MustCompile(`^meeting_\d{8}_\d{6}_\d{6}$`)

// FormatMeetingID renders t as meeting_YYYYMMDD_HHMMSS_ffffff.
func FormatMeetingID(t time.Time) string {
	return fmt.Sprintf("%s%s_%06d", MeetingIDPrefix, t.Format("20060102_150405"), t.Nanosecond()/1000)
}

// IDGenerator hands out meeting identifiers from the wall clock. Within one
// process identifiers are strictly increasing: a clock reading that does not
// advance past the last issued microsecond is bumped by one microsecond.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewIDGenerator returns a generator reading from now; nil uses time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a new meeting identifier.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now().Truncate(time.Microsecond)
	if !g.last.IsZero() && !t.After(g.last) {
		t = g.last.Add(time.Microsecond)
	}
	g.last = t
	return FormatMeetingID(t)
}
