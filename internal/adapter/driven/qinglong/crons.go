package qinglong

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/qlbridge/qlbridge/internal/domain/model"
)

// cronJSON mirrors the panel's scheduled task record. isDisabled 0 means
// the schedule is active; isPinned 1 means pinned to the top.
type cronJSON struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Command    string `json:"command"`
	Schedule   string `json:"schedule"`
	IsDisabled int    `json:"isDisabled"`
	IsPinned   int    `json:"isPinned"`
}

func (t cronJSON) toModel() model.ScheduledTask {
	return model.ScheduledTask{
		ID:       t.ID,
		Name:     t.Name,
		Command:  t.Command,
		Schedule: t.Schedule,
		Enabled:  t.IsDisabled == 0,
		Pinned:   t.IsPinned == 1,
	}
}

// ListTasks fetches the panel's scheduled tasks.
func (c *Client) ListTasks(ctx context.Context, search string) ([]model.ScheduledTask, error) {
	query := url.Values{}
	if search != "" {
		query.Set("searchValue", search)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/open/crons", query, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[cronJSON](raw)
	if err != nil {
		return nil, err
	}

	tasks := make([]model.ScheduledTask, 0, len(items))
	for _, item := range items {
		tasks = append(tasks, item.toModel())
	}
	return tasks, nil
}

// RunTasks starts the tasks with the given IDs immediately.
func (c *Client) RunTasks(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodPut, "/open/crons/run", nil, ids, nil)
}

// StopTasks stops the running tasks with the given IDs.
func (c *Client) StopTasks(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodPut, "/open/crons/stop", nil, ids, nil)
}

// SetTasksEnabled enables or disables the schedules of the given tasks.
func (c *Client) SetTasksEnabled(ctx context.Context, ids []int64, enabled bool) error {
	path := "/open/crons/disable"
	if enabled {
		path = "/open/crons/enable"
	}
	return c.do(ctx, http.MethodPut, path, nil, ids, nil)
}

// SetTasksPinned pins or unpins the given tasks in the panel's listing.
func (c *Client) SetTasksPinned(ctx context.Context, ids []int64, pinned bool) error {
	path := "/open/crons/unpin"
	if pinned {
		path = "/open/crons/pin"
	}
	return c.do(ctx, http.MethodPut, path, nil, ids, nil)
}

// DeleteTasks removes the tasks with the given IDs.
func (c *Client) DeleteTasks(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodDelete, "/open/crons", nil, ids, nil)
}

// TaskLog fetches the latest execution log text for one task.
func (c *Client) TaskLog(ctx context.Context, id int64) (string, error) {
	var log string
	path := fmt.Sprintf("/open/crons/%d/log", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &log); err != nil {
		return "", err
	}
	return log, nil
}
