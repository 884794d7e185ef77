package date

import (
	"slices"
	"testing"
	"time"
)

func TestAppendAdd(t *testing.T) {
	h := new(History[float64])
	on := New(2025, time.March, 1)
	// appending out of order must keep the history sorted.
	h.AppendAdd(on, 10).AppendAdd(on, -2.5).AppendAdd(New(2025, time.January, 1), 1)

	if got, ok := h.Get(on); !ok || got != 7.5 {
		t.Errorf("AppendAdd() Get() = %v, %v, want 7.5, true", got, ok)
	}
	if want := []Date{New(2025, time.January, 1), on}; !slices.Equal(h.days, want) {
		t.Errorf("history days = %v, want %v", h.days, want)
	}
	if _, ok := h.Get(New(2025, time.February, 1)); ok {
		t.Errorf("Get() on missing day returned ok")
	}
}

func TestIterate(t *testing.T) {
	a, b := new(History[float64]), new(History[float64])
	a.AppendAdd(New(2025, 1, 1), 1).AppendAdd(New(2025, 3, 1), 1)
	b.AppendAdd(New(2025, 2, 1), 1).AppendAdd(New(2025, 3, 1), 1)

	got := slices.Collect(Iterate(a, b))
	want := []Date{New(2025, 1, 1), New(2025, 2, 1), New(2025, 3, 1)}
	if !slices.Equal(got, want) {
		t.Errorf("Iterate() = %v, want %v", got, want)
	}
	if got := slices.Collect(Iterate[float64]()); len(got) != 0 {
		t.Errorf("Iterate() of nothing = %v, want empty", got)
	}
}
