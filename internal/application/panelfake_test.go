package application_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/qlbridge/qlbridge/internal/domain/model"
	"github.com/qlbridge/qlbridge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PanelClient = (*fakePanel)(nil)

// fakePanel is an in-memory stand-in for the panel's open API. Its list
// methods emulate the panel's substring searchValue filter; everything
// else mutates the in-memory collections. The actions slice records every
// bulk call for assertions.
type fakePanel struct {
	envs    []model.EnvironmentVariable
	tasks   []model.ScheduledTask
	logs    map[int64]string
	info    model.SystemInfo
	nextID  int64
	actions []string
	err     error // when set, every call fails with it
}

func newFakePanel() *fakePanel {
	return &fakePanel{logs: map[int64]string{}, nextID: 1}
}

func (f *fakePanel) addEnv(name, value, remark string, enabled bool) model.EnvironmentVariable {
	env := model.EnvironmentVariable{ID: f.nextID, Name: name, Value: value, Remark: remark, Enabled: enabled}
	f.nextID++
	f.envs = append(f.envs, env)
	return env
}

func (f *fakePanel) addTask(name, command, schedule string) model.ScheduledTask {
	task := model.ScheduledTask{ID: f.nextID, Name: name, Command: command, Schedule: schedule, Enabled: true}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task
}

func (f *fakePanel) record(format string, args ...any) {
	f.actions = append(f.actions, fmt.Sprintf(format, args...))
}

func (f *fakePanel) ListEnvs(_ context.Context, search string) ([]model.EnvironmentVariable, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.EnvironmentVariable
	for _, env := range f.envs {
		if search == "" || strings.Contains(env.Name, search) {
			out = append(out, env)
		}
	}
	return out, nil
}

func (f *fakePanel) CreateEnv(_ context.Context, name, value, remark string) (model.EnvironmentVariable, error) {
	if f.err != nil {
		return model.EnvironmentVariable{}, f.err
	}
	return f.addEnv(name, value, remark, true), nil
}

func (f *fakePanel) UpdateEnv(_ context.Context, env model.EnvironmentVariable) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.envs {
		if f.envs[i].ID == env.ID {
			f.envs[i] = env
			return nil
		}
	}
	return &model.APIError{Code: 400, Message: "no such env"}
}

func (f *fakePanel) DeleteEnvs(_ context.Context, ids []int64) error {
	if f.err != nil {
		return f.err
	}
	f.record("delete envs %v", ids)
	var kept []model.EnvironmentVariable
	for _, env := range f.envs {
		if !containsID(ids, env.ID) {
			kept = append(kept, env)
		}
	}
	f.envs = kept
	return nil
}

func (f *fakePanel) SetEnvsEnabled(_ context.Context, ids []int64, enabled bool) error {
	if f.err != nil {
		return f.err
	}
	f.record("set envs %v enabled=%t", ids, enabled)
	for i := range f.envs {
		if containsID(ids, f.envs[i].ID) {
			f.envs[i].Enabled = enabled
		}
	}
	return nil
}

func (f *fakePanel) ListTasks(_ context.Context, search string) ([]model.ScheduledTask, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.ScheduledTask
	for _, task := range f.tasks {
		if search == "" || strings.Contains(task.Name, search) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakePanel) RunTasks(_ context.Context, ids []int64) error {
	if f.err != nil {
		return f.err
	}
	f.record("run %v", ids)
	return nil
}

func (f *fakePanel) StopTasks(_ context.Context, ids []int64) error {
	if f.err != nil {
		return f.err
	}
	f.record("stop %v", ids)
	return nil
}

func (f *fakePanel) SetTasksEnabled(_ context.Context, ids []int64, enabled bool) error {
	if f.err != nil {
		return f.err
	}
	f.record("set tasks %v enabled=%t", ids, enabled)
	for i := range f.tasks {
		if containsID(ids, f.tasks[i].ID) {
			f.tasks[i].Enabled = enabled
		}
	}
	return nil
}

func (f *fakePanel) SetTasksPinned(_ context.Context, ids []int64, pinned bool) error {
	if f.err != nil {
		return f.err
	}
	f.record("set tasks %v pinned=%t", ids, pinned)
	for i := range f.tasks {
		if containsID(ids, f.tasks[i].ID) {
			f.tasks[i].Pinned = pinned
		}
	}
	return nil
}

func (f *fakePanel) DeleteTasks(_ context.Context, ids []int64) error {
	if f.err != nil {
		return f.err
	}
	f.record("delete tasks %v", ids)
	var kept []model.ScheduledTask
	for _, task := range f.tasks {
		if !containsID(ids, task.ID) {
			kept = append(kept, task)
		}
	}
	f.tasks = kept
	return nil
}

func (f *fakePanel) TaskLog(_ context.Context, id int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.logs[id], nil
}

func (f *fakePanel) SystemInfo(_ context.Context) (model.SystemInfo, error) {
	if f.err != nil {
		return model.SystemInfo{}, f.err
	}
	return f.info, nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
