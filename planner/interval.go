package planner

import (
	"strconv"
	"strings"

	"github.com/kestrelmarkets/stmdb/errs"
)

// IntervalSeconds parses a short interval label ("1m", "5m", "1h", "1d") into
// its length in seconds. Supported unit suffixes: s, m, h, d, w.
func IntervalSeconds(label string) (int64, error) {
	if len(label) < 2 {
		return 0, errs.ErrInvalidQuery
	}

	unit := label[len(label)-1]
	n, err := strconv.ParseInt(label[:len(label)-1], 10, 64)
	if err != nil || n <= 0 {
		return 0, errs.ErrInvalidQuery
	}

	switch strings.ToLower(string(unit)) {
	case "s":
		return n, nil
	case "m":
		return n * 60, nil
	case "h":
		return n * 3600, nil
	case "d":
		return n * 86400, nil
	case "w":
		return n * 604800, nil
	default:
		return 0, errs.ErrInvalidQuery
	}
}
