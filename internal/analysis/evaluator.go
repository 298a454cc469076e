// Package analysis scores snapshots against their estimates and drives
// the full watchlist analysis cycle.
package analysis

import (
	"fmt"

	"github.com/clearview/vista/backend/internal/contracts"
)

// opportunityDiscount marks a stock as an outright opportunity when the
// price sits at or below this fraction of fair value.
const opportunityDiscount = 0.70

// Evaluate scores a snapshot against its estimate and assigns a rating.
// Same inputs always produce the same evaluation.
func Evaluate(snap *contracts.FinancialSnapshot, est contracts.Estimate) contracts.Evaluation {
	ev := contracts.Evaluation{
		Strengths:  []string{},
		Weaknesses: []string{},
		Potential:  est.Potential,
	}

	scorePotential(&ev, snap, est)
	scorePE(&ev, snap)
	scorePB(&ev, snap)
	scoreROE(&ev, snap)
	scoreDividendYield(&ev, snap)
	scoreDebt(&ev, snap)

	ev.Rating = rate(ev.Score)

	applyOpportunityOverride(&ev, snap, est)

	return ev
}

func scorePotential(ev *contracts.Evaluation, snap *contracts.FinancialSnapshot, est contracts.Estimate) {
	if est.FairValue <= 0 || snap.Price <= 0 {
		return
	}
	p := est.Potential
	switch {
	case p > 50:
		ev.Score += 3
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("Potencial de valorização excepcional: %.1f%%", p))
	case p > 25:
		ev.Score += 2
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("Alto potencial de valorização: %.1f%%", p))
	case p > 10:
		ev.Score++
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("Bom potencial de valorização: %.1f%%", p))
	case p < -25:
		ev.Score -= 2
		ev.Weaknesses = append(ev.Weaknesses, fmt.Sprintf("Ação significativamente sobreavaliada: %.1f%%", p))
	case p < -10:
		ev.Score--
		ev.Weaknesses = append(ev.Weaknesses, fmt.Sprintf("Potencial de valorização negativo: %.1f%%", p))
	}
}

func scorePE(ev *contracts.Evaluation, snap *contracts.FinancialSnapshot) {
	pe := snap.Fundamentals.PE
	if pe <= 0 {
		return
	}
	switch {
	case pe < 10:
		ev.Score += 2
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("P/L baixo: %.1f", pe))
	case pe < 15:
		ev.Score++
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("P/L razoável: %.1f", pe))
	case pe > 40:
		ev.Score -= 2
		ev.Weaknesses = append(ev.Weaknesses, fmt.Sprintf("P/L muito alto: %.1f", pe))
	case pe > 25:
		ev.Score--
		ev.Weaknesses = append(ev.Weaknesses, fmt.Sprintf("P/L alto: %.1f", pe))
	}
}

func scorePB(ev *contracts.Evaluation, snap *contracts.FinancialSnapshot) {
	pb := snap.Fundamentals.PB
	if pb <= 0 {
		return
	}
	switch {
	case pb < 1:
		ev.Score += 2
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("Negociada abaixo do valor patrimonial: %.2f", pb))
	case pb < 1.5:
		ev.Score++
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("P/VP atrativo: %.2f", pb))
	case pb > 5:
		ev.Score -= 2
		ev.Weaknesses = append(ev.Weaknesses, fmt.Sprintf("P/VP muito alto: %.2f", pb))
	case pb > 3:
		ev.Score--
		ev.Weaknesses = append(ev.Weaknesses, fmt.Sprintf("P/VP alto: %.2f", pb))
	}
}

func scoreROE(ev *contracts.Evaluation, snap *contracts.FinancialSnapshot) {
	roe := snap.Fundamentals.ROE
	if roe <= 0 {
		return
	}
	switch {
	case roe > 0.20:
		ev.Score += 2
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("ROE excelente: %.1f%%", roe*100))
	case roe > 0.15:
		ev.Score++
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("ROE bom: %.1f%%", roe*100))
	case roe < 0.05:
		ev.Score -= 2
		ev.Weaknesses = append(ev.Weaknesses, fmt.Sprintf("ROE muito baixo: %.1f%%", roe*100))
	case roe < 0.08:
		ev.Score--
		ev.Weaknesses = append(ev.Weaknesses, fmt.Sprintf("ROE baixo: %.1f%%", roe*100))
	}
}

func scoreDividendYield(ev *contracts.Evaluation, snap *contracts.FinancialSnapshot) {
	dy := snap.Fundamentals.DividendYield
	if dy <= 0 {
		return
	}
	switch {
	case dy > 0.07:
		ev.Score += 2
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("Dividend yield excelente: %.1f%%", dy*100))
	case dy > 0.05:
		ev.Score++
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("Bom dividend yield: %.1f%%", dy*100))
	}
}

func scoreDebt(ev *contracts.Evaluation, snap *contracts.FinancialSnapshot) {
	if snap.Fundamentals.DebtToEBITDA == nil {
		return
	}
	debt := *snap.Fundamentals.DebtToEBITDA
	switch {
	case debt < 1:
		ev.Score += 2
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("Endividamento muito baixo: %.1fx", debt))
	case debt < 2:
		ev.Score++
		ev.Strengths = append(ev.Strengths, fmt.Sprintf("Endividamento controlado: %.1fx", debt))
	case debt > 4:
		ev.Score -= 2
		ev.Weaknesses = append(ev.Weaknesses, fmt.Sprintf("Endividamento muito alto: %.1fx", debt))
	case debt > 3:
		ev.Score--
		ev.Weaknesses = append(ev.Weaknesses, fmt.Sprintf("Endividamento alto: %.1fx", debt))
	}
}

func rate(score int) contracts.Rating {
	switch {
	case score >= 6:
		return contracts.RatingGreatOpportunity
	case score >= 3:
		return contracts.RatingBuy
	case score >= 0:
		return contracts.RatingHold
	case score >= -3:
		return contracts.RatingNeutral
	default:
		return contracts.RatingSell
	}
}

func applyOpportunityOverride(ev *contracts.Evaluation, snap *contracts.FinancialSnapshot, est contracts.Estimate) {
	if est.FairValue <= 0 || snap.Price <= 0 || snap.Price > opportunityDiscount*est.FairValue {
		return
	}

	ev.Rating = contracts.RatingGreatOpportunity
	ev.IsOpportunity = true

	const reason = "Cotada abaixo de 70% do valor justo"
	for _, s := range ev.Strengths {
		if s == reason {
			return
		}
	}
	ev.Strengths = append(ev.Strengths, reason)
}
