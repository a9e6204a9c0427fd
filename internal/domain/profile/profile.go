// Package profile classifies a candidate's overall working style from
// the computed metrics.
package profile

import "github.com/hirelens/hirelens/internal/domain/scoring"

// Profile names a candidate's AI working style.
type Profile string

// Known profiles. The values are the wire literals consumers match on.
const (
	Independent         Profile = "Independent"
	HealthyCollaborator Profile = "HealthyCollaborator"
	AIDependent         Profile = "AIDependent"
)

// descriptions are surfaced verbatim in reports.
var descriptions = map[Profile]string{
	Independent:         "Works through problems largely on their own, reaching for the assistant sparingly and strategically.",
	HealthyCollaborator: "Uses the assistant as a collaborator: asks for direction, then adapts and owns the resulting code.",
	AIDependent:         "Leans on the assistant for core work and tends to adopt its output with little modification.",
}

// labels are the plain-language names used inside narrative prose.
var labels = map[Profile]string{
	Independent:         "largely independent worker",
	HealthyCollaborator: "healthy collaborator",
	AIDependent:         "heavily assistant-reliant worker",
}

// Description returns the report text for p.
func (p Profile) Description() string {
	return descriptions[p]
}

// Label returns the lowercase phrase naming p in running text.
func (p Profile) Label() string {
	if l, ok := labels[p]; ok {
		return l
	}
	return string(p)
}

// Cutoffs hold the classification boundaries.
type Cutoffs struct {
	IndependenceHigh float64 `koanf:"independence_high"`
	IndependenceLow  float64 `koanf:"independence_low"`
	Collaboration    float64 `koanf:"collaboration"`
}

// DefaultCutoffs returns the calibrated default boundaries.
func DefaultCutoffs() Cutoffs {
	return Cutoffs{IndependenceHigh: 0.7, IndependenceLow: 0.4, Collaboration: 0.5}
}

// Classify is total over the metric space: every session gets exactly
// one profile. High independence wins outright; low independence paired
// with passive collaboration reads as dependency; everything else is
// healthy collaboration.
func Classify(metrics map[string]scoring.Metric, c Cutoffs) Profile {
	indep := metrics[scoring.MetricIndependence].Value
	collab := metrics[scoring.MetricAICollaboration].Value

	switch {
	case indep > c.IndependenceHigh:
		return Independent
	case indep < c.IndependenceLow && collab < c.Collaboration:
		return AIDependent
	default:
		return HealthyCollaborator
	}
}
