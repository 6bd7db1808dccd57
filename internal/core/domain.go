package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Source points at the row an expense was read from.
	Source struct {
		File string
		Row  int // 1-based data row, header excluded
	}

	Expense struct {
		Timestamp string
		Amount    decimal.Decimal
		Category  string
		Source    Source
	}
)

func (s Source) String() string {
	if s.File == "" {
		return ""
	}
	if s.Row == 0 {
		return s.File
	}
	return fmt.Sprintf("%s:%d", s.File, s.Row)
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
	"2 January 2006",
}

// ParseTimestamp parses the date formats commonly found in expense exports.
// Values without a zone are read as UTC; values with an offset keep it.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format %q", s)
}
