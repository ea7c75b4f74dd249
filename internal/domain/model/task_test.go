package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qlbridge/qlbridge/internal/domain/model"
)

func TestNextRun_FiveFieldSchedule(t *testing.T) {
	task := model.ScheduledTask{Schedule: "30 8 * * *"}
	now := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)

	next, err := task.NextRun(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC), next)
}

func TestNextRun_SixFieldSchedule(t *testing.T) {
	// The panel also accepts a leading seconds field.
	task := model.ScheduledTask{Schedule: "15 30 8 * * *"}
	now := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)

	next, err := task.NextRun(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 30, 15, 0, time.UTC), next)
}

func TestNextRun_InvalidSchedule(t *testing.T) {
	task := model.ScheduledTask{Schedule: "not a schedule"}
	_, err := task.NextRun(time.Now())
	assert.Error(t, err)
}
