// Package scheduling decides when staff members are due a new simulated
// phishing email and enqueues the corresponding scheduled sends.
package scheduling

import (
	"math/rand"
	"time"

	"github.com/spec-kit/phishsim/internal/config"
	"github.com/spec-kit/phishsim/internal/domain"
)

// Rule names the policy branch that produced a decision.
type Rule string

const (
	RuleTrendingUp   Rule = "trending_up_stale"
	RuleHighRisk     Rule = "high_risk_stale"
	RuleMonthlyFloor Rule = "monthly_floor"
)

// Policy holds the scheduling rules. Evaluation is deterministic apart from
// the injected random source used for the send-time jitter and template draw.
type Policy struct {
	staleAfter   time.Duration
	monthlyFloor time.Duration
	jitter       time.Duration
	highRisk     float64
	rng          *rand.Rand
}

// NewPolicy builds a policy from simulation settings.
func NewPolicy(cfg config.SimulationConfig, rng *rand.Rand) *Policy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Policy{
		staleAfter:   cfg.StaleAfter(),
		monthlyFloor: cfg.MonthlyFloor(),
		jitter:       cfg.JitterWindow(),
		highRisk:     cfg.HighRiskThreshold,
		rng:          rng,
	}
}

// Evaluate applies the rules to one staff member, first match wins:
//
//  1. stale for a week with risk trending up
//  2. stale for a week with a high running score
//  3. stale for a month, regardless of trend (the monthly floor)
//
// A match yields a ScheduledSend at now plus a random offset inside the
// jitter window, with a template drawn uniformly from the full closed set.
// The caller is responsible for the zero-pending-sends precondition.
func (p *Policy) Evaluate(staff domain.Staff, now time.Time) (*domain.ScheduledSend, Rule, bool) {
	idle := now.Sub(staff.LastSent.UTC())

	var rule Rule
	switch {
	case idle >= p.staleAfter && !staff.Direction:
		rule = RuleTrendingUp
	case idle >= p.staleAfter && staff.RiskScore >= p.highRisk:
		rule = RuleHighRisk
	case idle >= p.monthlyFloor:
		rule = RuleMonthlyFloor
	default:
		return nil, "", false
	}

	send := &domain.ScheduledSend{
		StaffID:    staff.ID,
		StaffEmail: staff.Email,
		Template:   p.pickTemplate(),
		SendTime:   now.Add(p.delay()).UTC(),
	}
	return send, rule, true
}

func (p *Policy) delay() time.Duration {
	if p.jitter <= 0 {
		return 0
	}
	return time.Duration(p.rng.Int63n(int64(p.jitter)))
}

func (p *Policy) pickTemplate() domain.Template {
	all := domain.Templates()
	return all[p.rng.Intn(len(all))]
}
