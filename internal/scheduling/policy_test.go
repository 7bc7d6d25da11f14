package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/phishsim/internal/config"
	"github.com/spec-kit/phishsim/internal/domain"
)

func testSimConfig() config.SimulationConfig {
	return config.SimulationConfig{
		StaleDays:         7,
		MonthlyFloorDays:  30,
		JitterHours:       72,
		HighRiskThreshold: 50,
	}
}

func testPolicy(seed int64) *Policy {
	return NewPolicy(testSimConfig(), rand.New(rand.NewSource(seed)))
}

func TestPolicyEvaluate(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("stale and trending up schedules under the first rule", func(t *testing.T) {
		staff := domain.Staff{
			ID:       "s1",
			Email:    "s1@example.com",
			LastSent: now.Add(-8 * 24 * time.Hour),
			// Direction false: risk increasing.
		}

		send, rule, ok := testPolicy(1).Evaluate(staff, now)
		require.True(t, ok)
		assert.Equal(t, RuleTrendingUp, rule)
		assert.Equal(t, "s1", send.StaffID)
		assert.Equal(t, "s1@example.com", send.StaffEmail)
		assert.False(t, send.Sent)
	})

	t.Run("stale high scorer trending down schedules under the second rule", func(t *testing.T) {
		staff := domain.Staff{
			ID:        "s2",
			RiskScore: 65,
			Direction: true,
			LastSent:  now.Add(-8 * 24 * time.Hour),
		}

		_, rule, ok := testPolicy(1).Evaluate(staff, now)
		require.True(t, ok)
		assert.Equal(t, RuleHighRisk, rule)
	})

	t.Run("fresh staff member is not scheduled", func(t *testing.T) {
		staff := domain.Staff{
			ID:       "s3",
			LastSent: now.Add(-2 * 24 * time.Hour),
		}

		_, _, ok := testPolicy(1).Evaluate(staff, now)
		assert.False(t, ok)
	})

	t.Run("improving low scorer is left alone inside the monthly window", func(t *testing.T) {
		staff := domain.Staff{
			ID:        "s4",
			RiskScore: 10,
			Direction: true,
			LastSent:  now.Add(-20 * 24 * time.Hour),
		}

		_, _, ok := testPolicy(1).Evaluate(staff, now)
		assert.False(t, ok)
	})

	t.Run("monthly floor schedules regardless of trend and score", func(t *testing.T) {
		staff := domain.Staff{
			ID:        "s5",
			RiskScore: 10,
			Direction: true,
			LastSent:  now.Add(-31 * 24 * time.Hour),
		}

		send, rule, ok := testPolicy(1).Evaluate(staff, now)
		require.True(t, ok)
		assert.Equal(t, RuleMonthlyFloor, rule)
		assert.NotNil(t, send)
	})

	t.Run("never-sent staff is immediately eligible", func(t *testing.T) {
		staff := domain.Staff{ID: "s6", LastSent: domain.LastSentSentinel}

		_, rule, ok := testPolicy(1).Evaluate(staff, now)
		require.True(t, ok)
		assert.Equal(t, RuleTrendingUp, rule)
	})

	t.Run("send time lands inside the jitter window", func(t *testing.T) {
		policy := testPolicy(42)
		staff := domain.Staff{ID: "s7", LastSent: domain.LastSentSentinel}

		for i := 0; i < 200; i++ {
			send, _, ok := policy.Evaluate(staff, now)
			require.True(t, ok)
			assert.False(t, send.SendTime.Before(now))
			assert.True(t, send.SendTime.Before(now.Add(72*time.Hour)))
		}
	})

	t.Run("template draw covers the full set including the last entry", func(t *testing.T) {
		policy := testPolicy(42)
		staff := domain.Staff{ID: "s8", LastSent: domain.LastSentSentinel}

		seen := map[domain.Template]bool{}
		for i := 0; i < 500; i++ {
			send, _, ok := policy.Evaluate(staff, now)
			require.True(t, ok)
			seen[send.Template] = true
		}
		for _, tmpl := range domain.Templates() {
			assert.True(t, seen[tmpl], "template %s never drawn", tmpl)
		}
	})
}
