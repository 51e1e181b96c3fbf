package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsdesk-go/internal/config"
	"whatsdesk-go/internal/model"
)

type staticAccounts struct {
	accounts []model.Account
}

func (s *staticAccounts) ListAccounts() ([]model.Account, error) {
	return s.accounts, nil
}

type countingRefresher struct {
	calls []string
}

func (c *countingRefresher) RefreshAccount(accountID string) (int, int, error) {
	c.calls = append(c.calls, accountID)
	return 1, 0, nil
}

func newTestScheduler(accounts ...model.Account) (*Scheduler, *countingRefresher) {
	refresher := &countingRefresher{}
	cfg := &config.SchedulerConfig{IntervalMinutes: 15}
	return NewScheduler(cfg, &staticAccounts{accounts: accounts}, refresher), refresher
}

func TestSchedulerStartStop(t *testing.T) {
	s, _ := newTestScheduler()

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())

	// Double start is rejected.
	assert.Error(t, s.Start())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	// Stopping a stopped scheduler is a no-op.
	require.NoError(t, s.Stop())
}

func TestSchedulerRestart(t *testing.T) {
	s, _ := newTestScheduler()

	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())

	// A restart must get a fresh, uncancelled context.
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.NoError(t, s.ctx.Err())

	require.NoError(t, s.Stop())
}

func TestRunOnceRefreshesAllAccounts(t *testing.T) {
	s, refresher := newTestScheduler(
		model.Account{ID: "a1"},
		model.Account{ID: "a2"},
	)

	require.NoError(t, s.Start())
	require.NoError(t, s.RunOnce())
	s.Stop()
	s.Wait()

	assert.Equal(t, []string{"a1", "a2"}, refresher.calls)
}

func TestNextRunZeroWhenStopped(t *testing.T) {
	s, _ := newTestScheduler()
	assert.True(t, s.GetNextRun().IsZero())
	assert.True(t, s.GetLastRun().IsZero())
}
