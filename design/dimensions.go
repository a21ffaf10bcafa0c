package design

import (
	"strconv"
	"strings"
)

// Range is one packed dimension. A single-bound dimension [N] has
// Single set and High = N.
type Range struct {
	High   int64 `json:"high"`
	Low    int64 `json:"low"`
	Single bool  `json:"single,omitempty"`
	// Implicit marks the width carried by an integer atom type (int,
	// byte, ...). Implicit ranges count in Size but are not rendered.
	Implicit bool `json:"implicit,omitempty"`
}

// Size returns the number of bits the range spans, high - low + 1.
// Extraction rejects ranges where this is below 1.
func (r Range) Size() int64 {
	if r.Single {
		return r.High
	}
	return r.High - r.Low + 1
}

// String returns [high:low] or [n].
func (r Range) String() string {
	if r.Single {
		return "[" + strconv.FormatInt(r.High, 10) + "]"
	}
	return "[" + strconv.FormatInt(r.High, 10) + ":" + strconv.FormatInt(r.Low, 10) + "]"
}

// Dimensions is the resolved packed shape of a signal. The zero value is
// a scalar (one bit).
type Dimensions struct {
	Ranges []Range `json:"ranges,omitempty"`
}

// Packed returns Dimensions for a single [high:low] range.
func Packed(high, low int64) Dimensions {
	return Dimensions{Ranges: []Range{{High: high, Low: low}}}
}

// Width returns Dimensions for a single [n] bound.
func Width(n int64) Dimensions {
	return Dimensions{Ranges: []Range{{High: n, Single: true}}}
}

// IsScalar reports whether no range was declared.
func (d Dimensions) IsScalar() bool { return len(d.Ranges) == 0 }

// Size returns the total bit count: the product of all ranges, or 1 for a
// scalar.
func (d Dimensions) Size() int64 {
	size := int64(1)
	for _, r := range d.Ranges {
		size *= r.Size()
	}
	return size
}

// String renders the declared ranges, e.g. "[7:0][3:0]". Scalars and
// implicit atom widths render as "".
func (d Dimensions) String() string {
	var b strings.Builder
	for _, r := range d.Ranges {
		if r.Implicit {
			continue
		}
		b.WriteString(r.String())
	}
	return b.String()
}

// AsPacked returns d with every single bound [N] rewritten as the
// equivalent packed range [N-1:0].
func (d Dimensions) AsPacked() Dimensions {
	if d.IsScalar() {
		return d
	}
	out := Dimensions{Ranges: make([]Range, len(d.Ranges))}
	for i, r := range d.Ranges {
		if r.Single {
			r = Range{High: r.High - 1, Low: 0, Implicit: r.Implicit}
		}
		out.Ranges[i] = r
	}
	return out
}

// Equal reports whether both describe the same ranges.
func (d Dimensions) Equal(o Dimensions) bool {
	if len(d.Ranges) != len(o.Ranges) {
		return false
	}
	for i := range d.Ranges {
		if d.Ranges[i] != o.Ranges[i] {
			return false
		}
	}
	return true
}
