package services

import (
	"math"
	"time"
)

// minSpan replaces non-positive spans caused by the clock moving backwards.
const minSpan = time.Nanosecond

// Evaluation is the outcome of evaluating a key's retained history.
type Evaluation struct {
	Samples int
	// Rate is in events per second and only meaningful when Defined is true.
	Rate     float64
	Defined  bool
	Exceeded bool
}

// RateEvaluator turns a timestamp history into a rate and a decision.
type RateEvaluator struct {
	limit float64
}

func NewRateEvaluator(limit float64) RateEvaluator {
	return RateEvaluator{limit: limit}
}

// Evaluate computes (n-1)/span over the whole retained history, where span is
// the time between the first and last stamp. Histories with fewer than two
// stamps never exceed the limit; identical first and last stamps give an
// infinite rate.
func (e RateEvaluator) Evaluate(stamps []time.Time) Evaluation {
	n := len(stamps)
	if n <= 1 {
		return Evaluation{Samples: n}
	}

	span := stamps[n-1].Sub(stamps[0])
	var rate float64
	switch {
	case span == 0:
		rate = math.Inf(1)
	case span < 0:
		rate = float64(n-1) / minSpan.Seconds()
	default:
		rate = float64(n-1) / span.Seconds()
	}

	return Evaluation{
		Samples:  n,
		Rate:     rate,
		Defined:  true,
		Exceeded: rate > e.limit,
	}
}
