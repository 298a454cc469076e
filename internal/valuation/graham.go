// Package valuation computes intrinsic value estimates from fundamentals.
package valuation

import (
	"math"

	"github.com/clearview/vista/backend/internal/contracts"
)

const (
	// grahamMultiplier is the classic 22.5 product ceiling (P/E 15 x P/B 1.5).
	grahamMultiplier = 22.5

	// maxGrowthRate caps the growth input of the extended formula.
	maxGrowthRate = 0.15

	// baseBondYield is the 4.4% AAA corporate bond yield the extended
	// formula was originally calibrated against.
	baseBondYield = 4.4
)

// Basic computes the classic fair value sqrt(22.5 * EPS * BVPS).
// Returns 0 when either input is non-positive.
func Basic(eps, bvps float64) float64 {
	if eps <= 0 || bvps <= 0 {
		return 0
	}
	return math.Sqrt(grahamMultiplier * eps * bvps)
}

// Extended computes the revised fair value EPS * (8.5 + 2g) * 4.4 / Y,
// where g is the growth rate in percent (capped at 15%) and Y the current
// bond yield in percent. Returns 0 when EPS or the yield is non-positive.
func Extended(eps, growthRate, bondYield float64) float64 {
	if eps <= 0 || bondYield <= 0 {
		return 0
	}
	g := math.Min(growthRate, maxGrowthRate)
	return eps * (8.5 + 2*g*100) * baseBondYield / (bondYield * 100)
}

// Brazilian adjusts the basic fair value for the local market: high
// return on equity and generous dividends earn a premium, leverage above
// comfort levels a discount. ROE and dividend yield are decimals.
// debtToEBITDA may be nil when the company reports no net debt figure.
func Brazilian(eps, bvps, roe, dividendYield float64, debtToEBITDA *float64) float64 {
	base := Basic(eps, bvps)
	if base == 0 {
		return 0
	}

	factor := 1.0

	switch {
	case roe > 0.20:
		factor *= 1.3
	case roe > 0.15:
		factor *= 1.2
	case roe > 0.10:
		factor *= 1.1
	case roe < 0.05:
		factor *= 0.8
	}

	switch {
	case dividendYield > 0.07:
		factor *= 1.2
	case dividendYield > 0.05:
		factor *= 1.1
	case dividendYield < 0.02:
		factor *= 0.9
	}

	if debtToEBITDA != nil {
		switch {
		case *debtToEBITDA > 3.0:
			factor *= 0.8
		case *debtToEBITDA > 2.0:
			factor *= 0.9
		case *debtToEBITDA < 1.0:
			factor *= 1.1
		}
	}

	return base * factor
}

// Potential returns the upside from price to fair value in percent.
// Returns 0 when either is non-positive.
func Potential(fairValue, price float64) float64 {
	if fairValue <= 0 || price <= 0 {
		return 0
	}
	return (fairValue - price) / price * 100
}

// Estimate derives implied per-share figures from the snapshot's price
// multiples, runs the market-adjusted formula and packages the result.
// Snapshots without usable multiples produce a zero estimate.
func Estimate(snap *contracts.FinancialSnapshot) contracts.Estimate {
	var est contracts.Estimate

	if snap.Price <= 0 {
		return est
	}
	f := snap.Fundamentals
	if f.PE > 0 {
		est.ImpliedEPS = snap.Price / f.PE
	}
	if f.PB > 0 {
		est.ImpliedBVPS = snap.Price / f.PB
	}

	if snap.Region == contracts.RegionBR {
		est.FairValue = Brazilian(est.ImpliedEPS, est.ImpliedBVPS, f.ROE, f.DividendYield, f.DebtToEBITDA)
	} else {
		est.FairValue = Basic(est.ImpliedEPS, est.ImpliedBVPS)
	}
	est.Potential = Potential(est.FairValue, snap.Price)

	return est
}
