package pfdigest

import "math"

// RiskParams holds the annualization assumptions of the risk statistics.
type RiskParams struct {
	RiskFreeRate   float64 // annual
	PeriodsPerYear int
}

// DefaultRiskParams are monthly periods and a 3% risk-free rate.
var DefaultRiskParams = RiskParams{RiskFreeRate: 0.03, PeriodsPerYear: 12}

// Regression is an ordinary least-squares fit y = Alpha + Beta*x.
type Regression struct {
	Alpha float64 // raw intercept, per period
	Beta  float64
	N     int
}

// Regress fits y against x using only the periods where both are defined.
// It needs at least 3 pairs and a non-constant x.
func Regress(y, x []Value) (Regression, bool) {
	var xs, ys []float64
	for i := 0; i < len(y) && i < len(x); i++ {
		yv, yok := y[i].Get()
		xv, xok := x[i].Get()
		if yok && xok {
			xs, ys = append(xs, xv), append(ys, yv)
		}
	}
	if len(xs) < 3 {
		return Regression{}, false
	}
	mx, my := mean(xs), mean(ys)
	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - mx
		sxx += dx * dx
		sxy += dx * (ys[i] - my)
	}
	if sxx == 0 {
		return Regression{}, false
	}
	beta := sxy / sxx
	return Regression{Alpha: my - beta*mx, Beta: beta, N: len(xs)}, true
}

// RiskStats are annualized risk statistics of a periodic return series.
type RiskStats struct {
	Alpha       Value // intercept * periods per year
	Beta        Value
	StdDev      Value
	Sharpe      Value
	Sortino     Value
	MaxDrawdown Value
}

// NewRiskStats computes the risk statistics of returns against benchmark.
// Every statistic that lacks data is None.
func NewRiskStats(returns, benchmark []Value, p RiskParams) RiskStats {
	var s RiskStats
	ppy := float64(p.PeriodsPerYear)
	if reg, ok := Regress(returns, benchmark); ok {
		s.Alpha = V(reg.Alpha * ppy)
		s.Beta = V(reg.Beta)
	}

	rs := Defined(returns)
	if len(rs) == 0 {
		return s
	}
	annualMean := mean(rs) * ppy
	sd := flatten(stddev(rs, 0) * math.Sqrt(ppy))
	s.StdDev = V(sd)
	if sd > 0 {
		s.Sharpe = V((annualMean - p.RiskFreeRate) / sd)
	}

	target := p.RiskFreeRate / ppy
	var downside []float64
	for _, r := range rs {
		if r < target {
			downside = append(downside, r)
		}
	}
	if len(downside) > 0 {
		if dd := flatten(stddev(downside, 0) * math.Sqrt(ppy)); dd > 0 {
			s.Sortino = V((annualMean - p.RiskFreeRate) / dd)
		}
	}

	s.MaxDrawdown = minValue(Drawdowns(returns))
	return s
}

// minDeviation is the deviation below which a series counts as flat.
// Identical inputs do not always cancel exactly in floating point.
const minDeviation = 1e-12

func flatten(sd float64) float64 {
	if sd < minDeviation {
		return 0
	}
	return sd
}

// Drawdowns returns the decline of the compounded growth of returns from
// its running peak. Growth starts at 1, which is also the initial peak,
// and a None return leaves it unchanged.
func Drawdowns(returns []Value) []Value {
	out := make([]Value, len(returns))
	cum, peak := 1.0, 1.0
	for t, r := range returns {
		if f, ok := r.Get(); ok {
			cum *= 1 + f
		}
		peak = math.Max(peak, cum)
		out[t] = V((cum - peak) / peak)
	}
	return out
}

// MaxDrawdownToDate returns the running minimum of drawdowns. It never
// increases. Leading None values stay None.
func MaxDrawdownToDate(drawdowns []Value) []Value {
	out := make([]Value, len(drawdowns))
	var worst Value
	for t, d := range drawdowns {
		if f, ok := d.Get(); ok {
			if w, wok := worst.Get(); !wok || f < w {
				worst = V(f)
			}
		}
		out[t] = worst
	}
	return out
}

// Milestones flags the periods where floor(total/step) strictly increases
// over the previous period. The first period is never flagged.
func Milestones(totals []Value, step float64) []bool {
	out := make([]bool, len(totals))
	if step <= 0 {
		return out
	}
	for t := 1; t < len(totals); t++ {
		prev, pok := totals[t-1].Get()
		cur, cok := totals[t].Get()
		if pok && cok {
			out[t] = math.Floor(cur/step) > math.Floor(prev/step)
		}
	}
	return out
}

func minValue(values []Value) Value {
	var m Value
	for _, v := range values {
		if f, ok := v.Get(); ok {
			if w, wok := m.Get(); !wok || f < w {
				m = V(f)
			}
		}
	}
	return m
}
