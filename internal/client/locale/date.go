package locale

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// WordPress serves "date" without a zone; "date_gmt" and most plugins use
// RFC 3339.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", time.DateOnly}

var ruMonths = [...]string{
	"янв.", "февр.", "мар.", "апр.", "мая", "июн.",
	"июл.", "авг.", "сент.", "окт.", "нояб.", "дек.",
}

// FormatDate renders a CMS date in the medium style of l. An empty input
// yields an empty string.
func (l Locale) FormatDate(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	var (
		t   time.Time
		err error
	)
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, raw); err == nil {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}

	switch l {
	case Russian:
		return fmt.Sprintf("%d %s %d г.", t.Day(), ruMonths[t.Month()-1], t.Year()), nil
	default:
		return t.Format("Jan 2, 2006"), nil
	}
}
