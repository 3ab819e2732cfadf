// Package analytics derives read-only pipeline statistics from the current
// job set. Pure functions, recomputed per call; nothing here mutates or
// caches anything.
package analytics

import (
	"math"

	"jobtrack-engine/internal/domain"
)

type Overview struct {
	Saved             int `json:"saved"`
	Applied           int `json:"applied"`
	Interview         int `json:"interview"`
	Offer             int `json:"offer"`
	Rejected          int `json:"rejected"`
	TotalApplications int `json:"totalApplications"`
}

type Conversion struct {
	AppliedToInterviewRate float64 `json:"appliedToInterviewRate"`
	InterviewToOfferRate   float64 `json:"interviewToOfferRate"`
}

type Outcomes struct {
	OfferSuccessRate float64 `json:"offerSuccessRate"`
	RejectionRate    float64 `json:"rejectionRate"`
}

func Summarize(jobs []domain.Job) Overview {
	var o Overview
	for _, j := range jobs {
		switch j.Status {
		case domain.StatusSaved:
			o.Saved++
		case domain.StatusApplied:
			o.Applied++
		case domain.StatusInterview:
			o.Interview++
		case domain.StatusOffer:
			o.Offer++
		case domain.StatusRejected:
			o.Rejected++
		}
	}
	o.TotalApplications = len(jobs)
	return o
}

// ConversionRates works off current statuses, not a funnel replay: a job
// counts for every stage at or below its current one. REJECTED stays out of
// both denominators because a rejection's prior stage is unknowable here.
func ConversionRates(jobs []domain.Job) Conversion {
	o := Summarize(jobs)

	reachedApplied := o.Applied + o.Interview + o.Offer
	reachedInterview := o.Interview + o.Offer

	return Conversion{
		AppliedToInterviewRate: rate(reachedInterview, reachedApplied),
		InterviewToOfferRate:   rate(o.Offer, reachedInterview),
	}
}

func OutcomeRates(jobs []domain.Job) Outcomes {
	o := Summarize(jobs)
	return Outcomes{
		OfferSuccessRate: rate(o.Offer, o.TotalApplications),
		RejectionRate:    rate(o.Rejected, o.TotalApplications),
	}
}

// rate is num/den as a percentage, one decimal place, 0 when den == 0.
func rate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(float64(num)/float64(den)*1000) / 10
}
