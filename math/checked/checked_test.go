package checked

import (
	"math"
	"testing"
)

func TestInt(t *testing.T) {
	cases := []struct {
		name       string
		f          func(a, b int) (int, bool)
		a, b, want int
		wantOk     bool
	}{
		{"add", AddInt, 2, 3, 5, true},
		{"add", AddInt, 0, 0, 0, true},
		{"add", AddInt, math.MaxInt, 1, 0, false},
		{"add", AddInt, -1, 3, 0, false},
	}
	for _, c := range cases {
		got, gotOk := c.f(c.a, c.b)
		if got != c.want || gotOk != c.wantOk {
			t.Errorf("%s(%d, %d) = %d, %v want %d, %v", c.name, c.a, c.b, got, gotOk, c.want, c.wantOk)
		}
	}
}

func TestMaxInt(t *testing.T) {
	if g := MaxInt(3, 7); g != 7 {
		t.Errorf("MaxInt(3, 7) = %d", g)
	}
	if g := MaxInt(7, 3); g != 7 {
		t.Errorf("MaxInt(7, 3) = %d", g)
	}
}

func TestUint64(t *testing.T) {
	cases := []struct {
		name       string
		f          func(a, b uint64) (uint64, bool)
		a, b, want uint64
		wantOk     bool
	}{
		{"add", AddUint64, 2, 3, 5, true},
		{"add", AddUint64, math.MaxUint64, 1, 0, false},
	}
	for _, c := range cases {
		got, gotOk := c.f(c.a, c.b)
		if got != c.want || gotOk != c.wantOk {
			t.Errorf("%s(%d, %d) = %d, %v want %d, %v", c.name, c.a, c.b, got, gotOk, c.want, c.wantOk)
		}
	}
}
