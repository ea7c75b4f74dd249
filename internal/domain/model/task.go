package model

import (
	"time"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts both 5-field crontab expressions and the 6-field
// (leading seconds) form the panel also supports, plus @-descriptors.
var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ScheduledTask is a panel-managed cron-triggered job. Its execution log is
// fetched on demand and never stored locally.
type ScheduledTask struct {
	ID       int64
	Name     string
	Command  string
	Schedule string
	Enabled  bool
	Pinned   bool
}

// DisplayName returns the name the pagination engine filters on.
func (t ScheduledTask) DisplayName() string { return t.Name }

// NextRun returns the first time after now at which the task's schedule
// fires. Returns an error when the schedule expression does not parse;
// the panel stores schedules verbatim and does not guarantee validity.
func (t ScheduledTask) NextRun(now time.Time) (time.Time, error) {
	sched, err := scheduleParser.Parse(t.Schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(now), nil
}
