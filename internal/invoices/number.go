package invoices

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NumberPrefix is the human-readable invoice number prefix.
const NumberPrefix = "INV"

// NextNumber derives the next invoice number from the most recent one.
// Numbers follow INV-<sequence>-<yyyymm>. The sequence segment of the
// prior number is incremented and the period segment is replaced with
// the current year and month. A missing or unparsable prior number is
// treated as sequence 0, so the very first invoice becomes INV-1-<period>.
//
// Uniqueness is only probabilistic: two concurrent callers may read the
// same prior number and collide. The unique constraint on the invoices
// table is the final backstop, surfaced as a conflict.
func NextNumber(last string, now time.Time) string {
	seq := 0
	if parts := strings.Split(last, "-"); len(parts) >= 2 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s-%d-%s", NumberPrefix, seq+1, now.Format("200601"))
}
