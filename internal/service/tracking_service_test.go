package service

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/phishsim/internal/events"
)

func newTrackingFixture(t *testing.T) (*serviceFixture, *TrackingService) {
	t.Helper()
	f := newServiceFixture(t)
	tracking := NewTrackingService(
		f.service,
		f.staffRepo,
		f.dispatcher,
		clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)),
	)
	return f, tracking
}

func TestTrackingServiceRecordClick(t *testing.T) {
	ctx := context.Background()

	t.Run("first click scores thirty and marks the trend upward", func(t *testing.T) {
		f, tracking := newTrackingFixture(t)
		member := f.addStaff(t, "casey", 0)

		updated, err := tracking.RecordClick(ctx, member.ID)
		require.NoError(t, err)

		assert.Equal(t, 1, updated.Clicked)
		assert.InDelta(t, 30, updated.RiskScore, 1e-9)
		assert.InDelta(t, 30, updated.LatestRisk, 1e-9)
		assert.False(t, updated.Direction)
	})

	t.Run("click refreshes the department aggregate", func(t *testing.T) {
		f, tracking := newTrackingFixture(t)
		member := f.addStaff(t, "casey", 0)
		f.addStaff(t, "quiet", 0)

		_, err := tracking.RecordClick(ctx, member.ID)
		require.NoError(t, err)

		dept, err := f.deptRepo.GetByID(ctx, f.dept.ID)
		require.NoError(t, err)
		assert.InDelta(t, 15, dept.RiskScore, 1e-9)
	})

	t.Run("click publishes the interaction event", func(t *testing.T) {
		f, tracking := newTrackingFixture(t)
		member := f.addStaff(t, "casey", 0)

		_, err := tracking.RecordClick(ctx, member.ID)
		require.NoError(t, err)

		published := f.dispatcher.ofType(events.EventLinkClicked)
		require.Len(t, published, 1)
		assert.Equal(t, member.ID, published[0].StaffID)

		payload, ok := published[0].Payload.(events.InteractionPayload)
		require.True(t, ok)
		assert.InDelta(t, 30, payload.RiskScore, 1e-9)
	})

	t.Run("unknown staff yields not found", func(t *testing.T) {
		_, tracking := newTrackingFixture(t)

		_, err := tracking.RecordClick(ctx, "missing")
		assert.Error(t, err)
	})
}

func TestTrackingServiceRecordSubmission(t *testing.T) {
	ctx := context.Background()

	t.Run("submission after the first click tops the score up to one hundred", func(t *testing.T) {
		f, tracking := newTrackingFixture(t)
		member := f.addStaff(t, "casey", 0)

		_, err := tracking.RecordClick(ctx, member.ID)
		require.NoError(t, err)
		updated, err := tracking.RecordSubmission(ctx, member.ID)
		require.NoError(t, err)

		assert.Equal(t, 1, updated.Submitted)
		assert.InDelta(t, 100, updated.RiskScore, 1e-9)
		assert.InDelta(t, 100, updated.LatestRisk, 1e-9)
	})

	t.Run("repeat offender blends click and submission into the average", func(t *testing.T) {
		f, tracking := newTrackingFixture(t)
		member := f.addStaff(t, "casey", 0)

		// Two clicks: 0 -> 30 -> 30 (average of 30 and 30).
		_, err := tracking.RecordClick(ctx, member.ID)
		require.NoError(t, err)
		_, err = tracking.RecordClick(ctx, member.ID)
		require.NoError(t, err)

		updated, err := tracking.RecordSubmission(ctx, member.ID)
		require.NoError(t, err)

		// (30*2 + 70) / 2 = 65, above the pre-click baseline of 30.
		assert.InDelta(t, 65, updated.RiskScore, 1e-9)
		assert.False(t, updated.Direction)

		dept, err := f.deptRepo.GetByID(ctx, f.dept.ID)
		require.NoError(t, err)
		assert.InDelta(t, 65, dept.RiskScore, 1e-9)
	})

	t.Run("submission publishes the interaction event", func(t *testing.T) {
		f, tracking := newTrackingFixture(t)
		member := f.addStaff(t, "casey", 0)

		_, err := tracking.RecordClick(ctx, member.ID)
		require.NoError(t, err)
		_, err = tracking.RecordSubmission(ctx, member.ID)
		require.NoError(t, err)

		require.Len(t, f.dispatcher.ofType(events.EventCredentialsSubmitted), 1)
	})
}
