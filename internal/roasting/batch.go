package roasting

import (
	"fmt"
	"time"
)

// batchNumber formats a batch identifier: BATCH-YYYYMMDD-NNN where NNN is
// one past the number of roasts already recorded that day. Two sessions
// recording at the same moment can collide on a number; the identifier is
// a human-facing label, not a primary key.
func batchNumber(day time.Time, sameDayCount int64) string {
	return fmt.Sprintf("BATCH-%s-%03d", day.Format("20060102"), sameDayCount+1)
}
