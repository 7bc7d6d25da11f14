// Package risk holds the pure scoring rules for phishing interactions.
// Persistence of the updated records is the caller's responsibility.
package risk

import (
	"time"

	"github.com/spec-kit/phishsim/internal/domain"
)

const (
	// ClickRisk is the interaction score of following a simulated link.
	ClickRisk = 30
	// SubmissionRisk is the interaction score of submitting credentials.
	SubmissionRisk = 100
	// submissionIncrement lifts a click's 30 points to the full 100.
	submissionIncrement = 70
)

// ApplyClick records a link-clicked interaction and returns the updated record.
//
// The first-ever click adds the full 30 points; later clicks fold 30 into a
// running average of the history. The update rules are fixed empirical
// formulas carried over from the platform's scoring model, not derived here.
func ApplyClick(s domain.Staff) domain.Staff {
	s.Clicked++
	s.LatestRisk = ClickRisk

	if s.Clicked == 1 {
		s.RiskScore = clamp(s.RiskScore + ClickRisk)
		s.Direction = false
		return s
	}

	next := (s.RiskScore + ClickRisk) / 2
	switch {
	case next > s.RiskScore:
		s.Direction = false
	case next < s.RiskScore:
		s.Direction = true
	}
	s.RiskScore = clamp(next)
	return s
}

// ApplySubmission records a credentials-submitted interaction. The calling
// protocol guarantees a click preceded it (the landing page is only reachable
// through the link), so Clicked >= 1 is not re-validated.
func ApplySubmission(s domain.Staff) domain.Staff {
	s.Submitted++
	s.LatestRisk = SubmissionRisk

	if s.Clicked == 1 {
		// Submission immediately after the first click: the click already
		// contributed 30, the submission tops it up to 100.
		s.RiskScore = clamp(s.RiskScore + submissionIncrement)
		return s
	}

	// Reverse the averaging of the preceding click, then reapply the click and
	// submission as one blended interaction. Direction compares against the
	// pre-click baseline rather than the post-click score.
	baseline := s.RiskScore*2 - ClickRisk
	next := (s.RiskScore*2 + submissionIncrement) / 2
	switch {
	case next > baseline:
		s.Direction = false
	case next < baseline:
		s.Direction = true
	}
	s.RiskScore = clamp(next)
	return s
}

// ApplyDelivery records a simulated email reaching the staff member's inbox.
// Delivery carries no risk weight; it refreshes the send bookkeeping.
func ApplyDelivery(s domain.Staff, now time.Time) domain.Staff {
	s.Delivered++
	if s.Delivered == 1 && s.Clicked == 0 {
		s.Direction = false
	}
	s.LastSent = now.UTC()
	return s
}

// Reset zeroes a staff member's counters and scores. The caller must
// recompute the owning department's aggregate afterwards.
func Reset(s domain.Staff) domain.Staff {
	s.Delivered = 0
	s.Clicked = 0
	s.Submitted = 0
	s.RiskScore = 0
	s.LatestRisk = 0
	s.Direction = false
	return s
}

// DepartmentMean computes a department aggregate from its current members.
// An empty department scores zero.
func DepartmentMean(members []domain.Staff) float64 {
	if len(members) == 0 {
		return 0
	}
	var sum float64
	for _, m := range members {
		sum += m.RiskScore
	}
	return sum / float64(len(members))
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
