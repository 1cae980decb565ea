// Package summarize turns a fitted model into the influence edges and
// baseline rhythm descriptions a host surfaces to a reader: which event
// types excite or inhibit which others, on what timescale, and what time-of-
// day/week pattern each type follows on its own.
package summarize

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/rhaversen/lifetracker-analysis/internal/basis"
	"github.com/rhaversen/lifetracker-analysis/internal/glmparams"
)

// EdgeDirection classifies the net sign of an influence edge's integrated
// effect over the 168-hour horizon.
type EdgeDirection string

const (
	DirectionExcite  EdgeDirection = "excite"
	DirectionInhibit EdgeDirection = "inhibit"
	DirectionNeutral EdgeDirection = "neutral"
)

// directionThreshold is the integrated-effect magnitude below which an edge
// is classified neutral rather than excite/inhibit.
const directionThreshold = 0.1

// MinStrength is the default minimum total absolute weight an edge must
// carry to be reported.
const MinStrength = 0.1

// HR horizons, in hours, fixed by the spec in addition to the edge's own
// peak lag.
const (
	hrHorizonQuarterHour = 0.25
	hrHorizonOneHour     = 1.0
	hrHorizonSixHours    = 6.0
)

// Edge describes the fitted influence of one event type (the source) on
// another (the target).
type Edge struct {
	SourceType       string
	TargetType       string
	PeakLagMs        int64
	PeakValue        float64
	MassTimeMs       int64
	IntegratedEffect float64
	HRAtPeak         float64
	HRAt15Min        float64
	HRAt1Hour        float64
	HRAt6Hours       float64
	Direction        EdgeDirection
	Strength         float64
}

// Baseline describes a fitted type's own time-of-day and day-of-week rhythm.
// HourHarmonic2Amplitude exposes the fitted second hour-harmonic (baseline
// feature slots 3,4); it is fit by the GLM but, per the reference behavior,
// not folded into HourAmp/HourPeak.
type Baseline struct {
	TypeName               string
	HourAmp                float64
	HourPhase              float64
	HourPeak               float64
	HourHarmonic2Amplitude float64
	DowAmp                 float64
	DowPhase               float64
	DowPeak                float64
}

// Edges derives every influence edge from a fitted model whose total
// absolute weight is at least minStrength, sorted by descending strength.
// A minStrength <= 0 uses MinStrength.
func Edges(fit *glmparams.FullModelFit, minStrength float64) []Edge {
	if fit == nil || fit.Params == nil {
		return nil
	}
	if minStrength <= 0 {
		minStrength = MinStrength
	}

	params := fit.Params
	var edges []Edge

	for t := 0; t < params.NumTypes; t++ {
		if !fit.Eligible(t) {
			continue
		}
		for s := 0; s < params.NumTypes; s++ {
			if s == t {
				continue
			}
			w := params.ThetaRow(t, s)

			absSum := floats.Norm(w, 1)
			if absSum < minStrength {
				continue
			}

			peakLagMs, peakValue := basis.PeakLag(w)
			massTimeMs := basis.MassTime(w)
			integratedEffect := basis.IntegratedEffect(w)

			strength := absSum / (1 + absSum)

			edges = append(edges, Edge{
				SourceType:       fit.TypeNames[s],
				TargetType:       fit.TypeNames[t],
				PeakLagMs:        peakLagMs,
				PeakValue:        peakValue,
				MassTimeMs:       massTimeMs,
				IntegratedEffect: integratedEffect,
				HRAtPeak:         math.Exp(peakValue),
				HRAt15Min:        math.Exp(basis.Curve(w, hrHorizonQuarterHour)),
				HRAt1Hour:        math.Exp(basis.Curve(w, hrHorizonOneHour)),
				HRAt6Hours:       math.Exp(basis.Curve(w, hrHorizonSixHours)),
				Direction:        direction(integratedEffect),
				Strength:         strength,
			})
		}
	}

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Strength > edges[j].Strength
	})
	return edges
}

func direction(integratedEffect float64) EdgeDirection {
	switch {
	case integratedEffect > directionThreshold:
		return DirectionExcite
	case integratedEffect < -directionThreshold:
		return DirectionInhibit
	default:
		return DirectionNeutral
	}
}

// Baselines derives every fitted type's own rhythm summary from its baseline
// coefficient row.
func Baselines(fit *glmparams.FullModelFit) []Baseline {
	if fit == nil || fit.Params == nil {
		return nil
	}

	const twoPi = 2 * math.Pi
	params := fit.Params
	var baselines []Baseline

	for k := 0; k < params.NumTypes; k++ {
		if !fit.Eligible(k) {
			continue
		}
		betaRow := params.Beta.RawRowView(k)

		hourPhase := math.Atan2(betaRow[1], betaRow[2])
		dowPhase := math.Atan2(betaRow[5], betaRow[6])

		baselines = append(baselines, Baseline{
			TypeName:               fit.TypeNames[k],
			HourAmp:                math.Hypot(betaRow[1], betaRow[2]),
			HourPhase:              hourPhase,
			HourPeak:               math.Mod(24-24*hourPhase/twoPi+24, 24),
			HourHarmonic2Amplitude: math.Hypot(betaRow[3], betaRow[4]),
			DowAmp:                 math.Hypot(betaRow[5], betaRow[6]),
			DowPhase:               dowPhase,
			DowPeak:                math.Round(math.Mod(7-7*dowPhase/twoPi+7, 7)),
		})
	}
	return baselines
}
