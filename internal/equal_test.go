package internal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func nanValue() float64 {
	return math.NaN()
}

func TestSameValue(t *testing.T) {
	m := map[string]any{}
	s := []any{1, 2}
	f := func() {}
	p := &struct{}{}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"int and float", 1, 1.0, false},
		{"strings", "a", "a", true},
		{"nils", nil, nil, true},
		{"nil and value", nil, 0, false},
		{"nan", nanValue(), nanValue(), true},
		{"float32 nan", float32(nanValue()), float32(nanValue()), true},
		{"nan and number", nanValue(), 1.0, false},
		{"same map", m, m, true},
		{"other map", m, map[string]any{}, false},
		{"same slice", s, s, true},
		{"resliced", s, s[:1], false},
		{"copied slice", s, []any{1, 2}, false},
		{"same func", f, f, true},
		{"same pointer", p, p, true},
		{"other pointer", p, &struct{}{}, false},
		{"comparable structs", struct{ A int }{1}, struct{ A int }{1}, true},
		{"uncomparable structs", struct{ A []int }{}, struct{ A []int }{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameValue(tt.a, tt.b))
		})
	}
}
