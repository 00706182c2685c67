package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Month selects one of the twelve monthly series, or the yearly mean.
type Month int

// Yearly is the zero Month and selects the yearly average series.
const (
	Yearly Month = iota
	January
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [13]string{
	"yearly", "jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

func (m Month) String() string {
	if m < Yearly || m > December {
		return fmt.Sprintf("month(%d)", int(m))
	}
	return monthNames[m]
}

// Valid reports whether m is Yearly or a calendar month.
func (m Month) Valid() bool {
	return m >= Yearly && m <= December
}

// ParseMonth accepts "1".."12", three-letter month abbreviations, full
// month names, and "year"/"yearly"/"avg" for the yearly series. The
// empty string selects Yearly.
func ParseMonth(s string) (Month, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "year", "yearly", "avg", "annual":
		return Yearly, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		m := Month(n)
		if m < January || m > December {
			return Yearly, fmt.Errorf("parse month: %d out of range 1-12", n)
		}
		return m, nil
	}

	if len(s) > 3 {
		s = s[:3]
	}
	for i, name := range monthNames[1:] {
		if s == name {
			return Month(i + 1), nil
		}
	}
	return Yearly, fmt.Errorf("parse month: unrecognized %q", s)
}
