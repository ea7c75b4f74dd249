package application

import (
	"context"

	"github.com/qlbridge/qlbridge/internal/domain/model"
	"github.com/qlbridge/qlbridge/internal/domain/port/driven"
)

// Resolver turns entity references into concrete panel records. It holds
// no state beyond the panel port and performs a fresh fetch per call.
//
// The panel does not enforce name uniqueness, so a bare-name reference
// matching several records fails with the candidate list rather than
// silently acting on the first match.
type Resolver struct {
	panel driven.PanelClient
}

// NewResolver creates a Resolver backed by the given panel client.
func NewResolver(panel driven.PanelClient) *Resolver {
	return &Resolver{panel: panel}
}

// ResolveVariable resolves a variable reference. Explicit-identifier
// references fail only with *model.NotFoundError; bare names additionally
// fail with *model.AmbiguousMatchError when several variables share the
// name.
func (r *Resolver) ResolveVariable(ctx context.Context, ref model.Ref) (model.EnvironmentVariable, error) {
	if ref.ByID() {
		envs, err := r.panel.ListEnvs(ctx, "")
		if err != nil {
			return model.EnvironmentVariable{}, err
		}
		for _, env := range envs {
			if env.ID == ref.ID() {
				return env, nil
			}
		}
		return model.EnvironmentVariable{}, &model.NotFoundError{Kind: "environment variable", Ref: ref}
	}

	// The panel's searchValue is a substring match; narrow remotely, then
	// require exact name equality locally.
	envs, err := r.panel.ListEnvs(ctx, ref.Name())
	if err != nil {
		return model.EnvironmentVariable{}, err
	}
	var matches []model.EnvironmentVariable
	for _, env := range envs {
		if env.Name == ref.Name() {
			matches = append(matches, env)
		}
	}

	switch len(matches) {
	case 0:
		return model.EnvironmentVariable{}, &model.NotFoundError{Kind: "environment variable", Ref: ref}
	case 1:
		return matches[0], nil
	}

	candidates := make([]model.Candidate, len(matches))
	for i, env := range matches {
		candidates[i] = model.Candidate{ID: env.ID, Detail: env.Remark}
	}
	return model.EnvironmentVariable{}, &model.AmbiguousMatchError{
		Kind:       "environment variable",
		Name:       ref.Name(),
		Candidates: candidates,
	}
}

// ResolveTask resolves a task reference with the same policy as
// ResolveVariable.
func (r *Resolver) ResolveTask(ctx context.Context, ref model.Ref) (model.ScheduledTask, error) {
	if ref.ByID() {
		tasks, err := r.panel.ListTasks(ctx, "")
		if err != nil {
			return model.ScheduledTask{}, err
		}
		for _, task := range tasks {
			if task.ID == ref.ID() {
				return task, nil
			}
		}
		return model.ScheduledTask{}, &model.NotFoundError{Kind: "task", Ref: ref}
	}

	tasks, err := r.panel.ListTasks(ctx, ref.Name())
	if err != nil {
		return model.ScheduledTask{}, err
	}
	var matches []model.ScheduledTask
	for _, task := range tasks {
		if task.Name == ref.Name() {
			matches = append(matches, task)
		}
	}

	switch len(matches) {
	case 0:
		return model.ScheduledTask{}, &model.NotFoundError{Kind: "task", Ref: ref}
	case 1:
		return matches[0], nil
	}

	candidates := make([]model.Candidate, len(matches))
	for i, task := range matches {
		candidates[i] = model.Candidate{ID: task.ID, Detail: task.Command}
	}
	return model.ScheduledTask{}, &model.AmbiguousMatchError{
		Kind:       "task",
		Name:       ref.Name(),
		Candidates: candidates,
	}
}
