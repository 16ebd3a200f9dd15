package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the value stored in a Cell.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindDate
)

// Cell is a single tabular value. The zero value is null.
type Cell struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

// Null returns the null cell.
func Null() Cell {
	return Cell{}
}

// String returns a string cell holding s.
func String(s string) Cell {
	return Cell{kind: KindString, str: s}
}

// Number returns a numeric cell holding v.
func Number(v float64) Cell {
	return Cell{kind: KindNumber, num: v}
}

// Date returns a date cell holding t.
func Date(t time.Time) Cell {
	return Cell{kind: KindDate, date: t}
}

// Kind reports the kind of value stored in the cell.
func (c Cell) Kind() Kind {
	return c.kind
}

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool {
	return c.kind == KindNull
}

// StringValue returns the string payload and whether the cell is a string.
func (c Cell) StringValue() (string, bool) {
	return c.str, c.kind == KindString
}

// NumberValue returns the numeric payload and whether the cell is numeric.
func (c Cell) NumberValue() (float64, bool) {
	return c.num, c.kind == KindNumber
}

// DateValue returns the date payload and whether the cell is a date.
func (c Cell) DateValue() (time.Time, bool) {
	return c.date, c.kind == KindDate
}

// Display renders the cell for text output. Null renders as the empty string,
// dates as ISO-8601 days, numbers in the shortest exact decimal form.
func (c Cell) Display() string {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindDate:
		return c.date.Format("2006-01-02")
	default:
		return ""
	}
}

// KeyOf encodes cells into a composite key string. Null is distinguishable
// from the empty string, and the kind tag keeps String("1") distinct from
// Number(1). Used for deduplication and dimension tuple lookup.
func KeyOf(cells ...Cell) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(0x1e)
		}
		switch c.kind {
		case KindNull:
			b.WriteByte('n')
		case KindString:
			b.WriteByte('s')
			b.WriteString(c.str)
		case KindNumber:
			b.WriteByte('f')
			b.WriteString(strconv.FormatFloat(c.num, 'g', -1, 64))
		case KindDate:
			b.WriteByte('d')
			b.WriteString(strconv.FormatInt(c.date.Unix(), 10))
		}
	}
	return b.String()
}
