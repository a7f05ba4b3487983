package collector

import "github.com/beorn7/perks/quantile"

// timerQuantiles are the quantiles reported when summarizing zone timer
// values across all zones of a server.
//
// (quantile -> allowed error)
//
var timerQuantiles = map[float64]float64{
	0.25: 0.01,
	0.50: 0.01,
	0.75: 0.01,
	0.90: 0.01,
	0.99: 0.01,
	1.00: 0.01,
}

// Summary accumulates a stream of observations and reports count, sum and
// quantiles in the shape a prometheus const summary expects.
//
// Query results are computed once, on first read; a Summary is not meant to
// be reused after that.
//
type Summary struct {
	count     uint64
	sum       float64
	quantiles map[float64]float64

	stream   *quantile.Stream
	computed bool
}

func NewSummary() *Summary {
	s := &Summary{
		quantiles: make(map[float64]float64, len(timerQuantiles)),
	}

	for phi, eps := range timerQuantiles {
		s.quantiles[phi] = eps
	}

	s.stream = quantile.NewTargeted(s.quantiles)

	return s
}

func (s *Summary) Insert(v float64) {
	s.sum += v
	s.stream.Insert(v)
	s.count++
}

func (s *Summary) Count() uint64 {
	s.compute()
	return s.count
}

func (s *Summary) Sum() float64 {
	s.compute()
	return s.sum
}

func (s *Summary) Quantiles() map[float64]float64 {
	s.compute()
	return s.quantiles
}

func (s *Summary) compute() {
	if s.computed {
		return
	}
	s.computed = true

	for phi := range s.quantiles {
		s.quantiles[phi] = s.stream.Query(phi)
	}
}
