package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Quarter is a calendar quarter such as 2025-Q3. It is the reference period
// identifier shared by every table in the pipeline.
type Quarter struct {
	Year int
	Q    int // 1..4
}

var quarterRe = regexp.MustCompile(`^(\d{4})[-\s]?[Qq]([1-4])$`)

// ParseQuarter parses identifiers of the form "2025-Q3" ("2025Q3" and lower
// case variants are tolerated, as source exports are not consistent).
func ParseQuarter(raw string) (Quarter, error) {
	m := quarterRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Quarter{}, fmt.Errorf("invalid quarter %q", raw)
	}
	year, _ := strconv.Atoi(m[1])
	q, _ := strconv.Atoi(m[2])
	return Quarter{Year: year, Q: q}, nil
}

// MustQuarter is a test and fixture helper that panics on a malformed value.
func MustQuarter(raw string) Quarter {
	q, err := ParseQuarter(raw)
	if err != nil {
		panic(err)
	}
	return q
}

// AddQuarters returns the quarter n quarters after q (n may be negative).
func (q Quarter) AddQuarters(n int) Quarter {
	idx := q.Year*4 + (q.Q - 1) + n
	out := Quarter{Year: idx / 4, Q: idx%4 + 1}
	if idx < 0 && idx%4 != 0 {
		out = Quarter{Year: idx/4 - 1, Q: idx%4 + 5}
	}
	return out
}

// YearAgo returns the same quarter in the previous year, the comparison
// period for annual growth rates.
func (q Quarter) YearAgo() Quarter { return q.AddQuarters(-4) }

// Before reports whether q is strictly earlier than other.
func (q Quarter) Before(other Quarter) bool {
	if q.Year != other.Year {
		return q.Year < other.Year
	}
	return q.Q < other.Q
}

// IsZero reports whether q is the zero value.
func (q Quarter) IsZero() bool { return q.Year == 0 && q.Q == 0 }

// String formats the quarter in the canonical "YYYY-Qn" form.
func (q Quarter) String() string { return fmt.Sprintf("%d-Q%d", q.Year, q.Q) }

// MarshalText implements encoding.TextMarshaler so quarters serialize in the
// canonical form inside JSON artifacts.
func (q Quarter) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quarter) UnmarshalText(b []byte) error {
	parsed, err := ParseQuarter(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
