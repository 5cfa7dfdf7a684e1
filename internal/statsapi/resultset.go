package statsapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

type envelope struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

// table returns the named result set, or the first one if the name is absent
func (e *envelope) table(name string) (*resultSet, error) {
	for i := range e.ResultSets {
		if strings.EqualFold(e.ResultSets[i].Name, name) {
			return &e.ResultSets[i], nil
		}
	}
	if len(e.ResultSets) > 0 {
		return &e.ResultSets[0], nil
	}
	return nil, fmt.Errorf("statsapi: result set %q missing", name)
}

// rows indexes each row by upper-cased header so column order does not matter
func (rs *resultSet) rows() []row {
	idx := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		idx[strings.ToUpper(h)] = i
	}
	out := make([]row, 0, len(rs.RowSet))
	for _, vals := range rs.RowSet {
		out = append(out, row{idx: idx, vals: vals})
	}
	return out
}

type row struct {
	idx  map[string]int
	vals []interface{}
}

func (r row) raw(col string) interface{} {
	i, ok := r.idx[strings.ToUpper(col)]
	if !ok || i >= len(r.vals) {
		return nil
	}
	return r.vals[i]
}

func (r row) String(col string) string {
	switch v := r.raw(col).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Float treats nulls and unparsable values as zero
func (r row) Float(col string) float64 {
	switch v := r.raw(col).(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return minutes(v)
		}
		return f
	default:
		return 0
	}
}

func (r row) Int(col string) int {
	return int(r.Float(col))
}

// minutes parses "MM:SS" minute strings some endpoints return
func minutes(s string) float64 {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	m, err1 := strconv.Atoi(parts[0])
	sec, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	return float64(m) + float64(sec)/60
}

var gameDateLayouts = []string{
	"Jan 02, 2006",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseGameDate accepts "APR 14, 2024" as well as ISO dates
func ParseGameDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("statsapi: unrecognized game date %q", s)
}
