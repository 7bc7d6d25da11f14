package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/phishsim/internal/domain"
)

func TestApplyClick(t *testing.T) {
	t.Run("first click adds full thirty points", func(t *testing.T) {
		s := domain.Staff{}

		s = ApplyClick(s)

		assert.Equal(t, 1, s.Clicked)
		assert.Equal(t, float64(30), s.LatestRisk)
		assert.Equal(t, float64(30), s.RiskScore)
		assert.False(t, s.Direction)
	})

	t.Run("second identical click leaves score and direction unchanged", func(t *testing.T) {
		s := domain.Staff{Clicked: 1, RiskScore: 30}

		s = ApplyClick(s)

		assert.Equal(t, 2, s.Clicked)
		assert.Equal(t, float64(30), s.RiskScore)
		assert.False(t, s.Direction)
	})

	t.Run("click averages down a high score and flips direction", func(t *testing.T) {
		s := domain.Staff{Clicked: 3, RiskScore: 90}

		s = ApplyClick(s)

		assert.Equal(t, float64(60), s.RiskScore)
		assert.True(t, s.Direction)
	})

	t.Run("click averages up a low score", func(t *testing.T) {
		s := domain.Staff{Clicked: 2, RiskScore: 10, Direction: true}

		s = ApplyClick(s)

		assert.Equal(t, float64(20), s.RiskScore)
		assert.False(t, s.Direction)
	})

	t.Run("equal-average click preserves prior direction", func(t *testing.T) {
		s := domain.Staff{Clicked: 2, RiskScore: 30, Direction: true}

		s = ApplyClick(s)

		assert.Equal(t, float64(30), s.RiskScore)
		assert.True(t, s.Direction)
	})
}

func TestApplySubmission(t *testing.T) {
	t.Run("submission after first click reaches one hundred", func(t *testing.T) {
		s := domain.Staff{Clicked: 1, RiskScore: 30, LatestRisk: 30}

		s = ApplySubmission(s)

		assert.Equal(t, 1, s.Submitted)
		assert.Equal(t, float64(100), s.LatestRisk)
		assert.Equal(t, float64(100), s.RiskScore)
	})

	t.Run("repeat submission blends against pre-click baseline", func(t *testing.T) {
		// Score 40 after the preceding click; baseline 40*2-30 = 50,
		// blended (40*2+70)/2 = 75, so risk rose.
		s := domain.Staff{Clicked: 3, RiskScore: 40, Direction: true}

		s = ApplySubmission(s)

		assert.Equal(t, float64(75), s.RiskScore)
		assert.False(t, s.Direction)
	})

	t.Run("blended submission below baseline marks risk falling", func(t *testing.T) {
		// Score 90 after the click; baseline 150, blended 125 but clamped to 100.
		s := domain.Staff{Clicked: 4, RiskScore: 90}

		s = ApplySubmission(s)

		assert.True(t, s.Direction)
		assert.Equal(t, float64(100), s.RiskScore)
	})
}

func TestApplyDelivery(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("delivery increments counter and stamps last sent", func(t *testing.T) {
		s := domain.Staff{LastSent: domain.LastSentSentinel}

		s = ApplyDelivery(s, now)

		assert.Equal(t, 1, s.Delivered)
		assert.Equal(t, now, s.LastSent)
		assert.False(t, s.Direction)
		assert.Zero(t, s.RiskScore)
	})

	t.Run("delivery never touches the score of a clicker", func(t *testing.T) {
		s := domain.Staff{Delivered: 2, Clicked: 1, RiskScore: 30, Direction: true}

		s = ApplyDelivery(s, now)

		assert.Equal(t, 3, s.Delivered)
		assert.Equal(t, float64(30), s.RiskScore)
		assert.True(t, s.Direction)
	})
}

func TestReset(t *testing.T) {
	s := domain.Staff{
		Delivered:  5,
		Clicked:    3,
		Submitted:  1,
		RiskScore:  82.5,
		LatestRisk: 100,
		Direction:  true,
	}

	s = Reset(s)

	assert.Zero(t, s.Delivered)
	assert.Zero(t, s.Clicked)
	assert.Zero(t, s.Submitted)
	assert.Zero(t, s.RiskScore)
	assert.Zero(t, s.LatestRisk)
	assert.False(t, s.Direction)
}

func TestDepartmentMean(t *testing.T) {
	t.Run("mean of member scores", func(t *testing.T) {
		members := []domain.Staff{
			{RiskScore: 20},
			{RiskScore: 40},
			{RiskScore: 60},
		}
		assert.Equal(t, float64(40), DepartmentMean(members))
	})

	t.Run("removing the high scorer lowers the mean", func(t *testing.T) {
		members := []domain.Staff{
			{RiskScore: 20},
			{RiskScore: 40},
		}
		assert.Equal(t, float64(30), DepartmentMean(members))
	})

	t.Run("empty department scores zero", func(t *testing.T) {
		assert.Zero(t, DepartmentMean(nil))
	})
}
