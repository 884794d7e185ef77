package pfdigest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPctChange(t *testing.T) {
	values := []Value{V(100), V(110), V(0), V(50), None, V(60)}
	got := PctChange(values, 1)
	want := []Value{None, V(0.1), V(-1), None, None, None}
	for i := range want {
		if got[i].Valid() != want[i].Valid() {
			t.Fatalf("PctChange()[%d] = %v (ok=%v), want %v (ok=%v)", i, got[i], got[i].Valid(), want[i], want[i].Valid())
		}
		assert.InDelta(t, want[i].Or(0), got[i].Or(0), 1e-12, "PctChange()[%d]", i)
	}
}

func TestPctChange_Trailing(t *testing.T) {
	values := make([]Value, 14)
	for i := range values {
		values[i] = V(float64(100 + i))
	}
	got := PctChange(values, 12)
	for i := 0; i < 12; i++ {
		if got[i].Valid() {
			t.Errorf("PctChange(12)[%d] = %v, want None", i, got[i])
		}
	}
	assert.InDelta(t, 12.0/100, got[12].Or(math.NaN()), 1e-12)
	assert.InDelta(t, 12.0/101, got[13].Or(math.NaN()), 1e-12)
}

func TestRollingStdDev(t *testing.T) {
	values := []Value{V(1), V(2), V(3), V(4), None, V(6), V(7), V(8)}
	got := RollingStdDev(values, 3)

	wantValid := []bool{false, false, true, true, false, false, false, true}
	for i, ok := range wantValid {
		if got[i].Valid() != ok {
			t.Errorf("RollingStdDev()[%d] valid = %v, want %v", i, got[i].Valid(), ok)
		}
	}
	// sample std of {1,2,3} is 1.
	assert.InDelta(t, 1.0, got[2].Or(0), 1e-12)
	assert.InDelta(t, 1.0, got[7].Or(0), 1e-12)
}

func TestStddev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, stddev(xs, 0), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7), stddev(xs, 1), 1e-12)
	assert.True(t, math.IsNaN(stddev([]float64{1}, 1)))
}
