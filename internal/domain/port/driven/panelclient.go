// Package driven declares the ports the application core depends on.
package driven

import (
	"context"

	"github.com/qlbridge/qlbridge/internal/domain/model"
)

// PanelClient defines the driven port for the panel's open API. Every call
// performs a fresh remote request; nothing is cached across calls. Bulk
// endpoints on the wire take ID arrays, so the mutating methods accept
// slices even though the router resolves references to a single ID.
type PanelClient interface {
	// Environment variables

	ListEnvs(ctx context.Context, search string) ([]model.EnvironmentVariable, error)
	// CreateEnv creates a variable and returns it as stored by the panel
	// (with its assigned ID).
	CreateEnv(ctx context.Context, name, value, remark string) (model.EnvironmentVariable, error)
	// UpdateEnv replaces the variable identified by env.ID with env's
	// name, value and remark.
	UpdateEnv(ctx context.Context, env model.EnvironmentVariable) error
	DeleteEnvs(ctx context.Context, ids []int64) error
	SetEnvsEnabled(ctx context.Context, ids []int64, enabled bool) error

	// Scheduled tasks

	ListTasks(ctx context.Context, search string) ([]model.ScheduledTask, error)
	RunTasks(ctx context.Context, ids []int64) error
	StopTasks(ctx context.Context, ids []int64) error
	SetTasksEnabled(ctx context.Context, ids []int64, enabled bool) error
	SetTasksPinned(ctx context.Context, ids []int64, pinned bool) error
	DeleteTasks(ctx context.Context, ids []int64) error
	// TaskLog fetches the latest execution log for one task.
	TaskLog(ctx context.Context, id int64) (string, error)

	// System

	SystemInfo(ctx context.Context) (model.SystemInfo, error)
}
