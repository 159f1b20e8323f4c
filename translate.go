package riskrange

import "github.com/shopspring/decimal"

// This file converts a trading range expressed in reference-symbol price
// coordinates into the equivalent range in portfolio-symbol coordinates.
//
// The reference feed publishes [tradeLow, tradeHigh] valid while the
// reference symbol trades at rCurrent. Expressed as scale factors
// tradeLow/rCurrent and tradeHigh/rCurrent, the same range is applied to the
// portfolio symbol at its own price pCurrent. For an inverted pair a rise in
// the reference corresponds to a fall in the portfolio symbol, so the
// reference's upper bound maps to the portfolio's lower bound and vice versa.

// TranslateRange returns the portfolio-coordinate trade range, or nils when
// any input is absent or the reference price is not strictly positive.
// Partial data is expected: an untranslatable row is left untranslated, it
// never fails the batch.
func TranslateRange(tradeLow, tradeHigh, rCurrent, pCurrent *float64, inverted bool) (pLow, pHigh *float64) {
	if tradeLow == nil || tradeHigh == nil || rCurrent == nil || pCurrent == nil {
		return nil, nil
	}
	if *rCurrent <= 0 {
		return nil, nil
	}

	r := decimal.NewFromFloat(*rCurrent)
	p := decimal.NewFromFloat(*pCurrent)
	lowFactor := decimal.NewFromFloat(*tradeLow).Div(r)
	highFactor := decimal.NewFromFloat(*tradeHigh).Div(r)

	low, _ := p.Mul(lowFactor).Float64()
	high, _ := p.Mul(highFactor).Float64()

	if inverted {
		// low/high swap: the reference's upper bound is the portfolio's floor.
		return f64(high), f64(low)
	}
	return f64(low), f64(high)
}

// pctFrom returns the percent distance of current from bound,
// (current-bound)/bound*100, or nil when either is absent or bound is zero.
func pctFrom(current, bound *float64) *float64 {
	if current == nil || bound == nil || *bound == 0 {
		return nil
	}
	b := decimal.NewFromFloat(*bound)
	pct, _ := decimal.NewFromFloat(*current).Sub(b).Div(b).Mul(decimal.NewFromInt(100)).Float64()
	return f64(pct)
}
