package date

import "fmt"

// Period is a calendar bucket used to group observations.
type Period int

const (
	Monthly Period = iota
	Quarterly
)

var periodNames = [...]string{"monthly", "quarterly"}

func (p Period) String() string {
	if p < 0 || int(p) >= len(periodNames) {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}
