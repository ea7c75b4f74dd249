package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qlbridge/qlbridge/internal/domain/model"
	"github.com/qlbridge/qlbridge/internal/domain/port/driven"
)

// Router maps parsed command intents onto panel operations. It validates
// only that required parameters are present; everything else is the
// panel's business. Resolver failures short-circuit and surface unchanged.
type Router struct {
	panel    driven.PanelClient
	resolver *Resolver
	pageSize int
	logger   *slog.Logger
}

// NewRouter creates a Router. pageSize <= 0 selects DefaultPageSize.
func NewRouter(panel driven.PanelClient, pageSize int) *Router {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Router{
		panel:    panel,
		resolver: NewResolver(panel),
		pageSize: pageSize,
		logger:   slog.Default(),
	}
}

// Handle executes one intent and returns its result. Every error is one of
// the kinds in the model package; the presentation layer renders them.
func (r *Router) Handle(ctx context.Context, intent model.Intent) (model.Result, error) {
	switch in := intent.(type) {
	case model.ListVariables:
		return r.listVariables(ctx, in)
	case model.AddVariable:
		return r.addVariable(ctx, in)
	case model.UpdateVariable:
		return r.updateVariable(ctx, in)
	case model.DeleteVariable:
		return r.deleteVariable(ctx, in)
	case model.SetVariableEnabled:
		return r.setVariableEnabled(ctx, in)
	case model.ListTasks:
		return r.listTasks(ctx, in)
	case model.RunTask:
		return r.taskAction(ctx, in.Ref, "run", r.panel.RunTasks)
	case model.StopTask:
		return r.taskAction(ctx, in.Ref, "stop", r.panel.StopTasks)
	case model.GetTaskLog:
		return r.taskLog(ctx, in)
	case model.SetTaskEnabled:
		if in.Enabled {
			return r.taskAction(ctx, in.Ref, "enable", func(ctx context.Context, ids []int64) error {
				return r.panel.SetTasksEnabled(ctx, ids, true)
			})
		}
		return r.taskAction(ctx, in.Ref, "disable", func(ctx context.Context, ids []int64) error {
			return r.panel.SetTasksEnabled(ctx, ids, false)
		})
	case model.PinTask:
		return r.taskAction(ctx, in.Ref, "pin", func(ctx context.Context, ids []int64) error {
			return r.panel.SetTasksPinned(ctx, ids, true)
		})
	case model.UnpinTask:
		return r.taskAction(ctx, in.Ref, "unpin", func(ctx context.Context, ids []int64) error {
			return r.panel.SetTasksPinned(ctx, ids, false)
		})
	case model.DeleteTask:
		return r.taskAction(ctx, in.Ref, "delete", r.panel.DeleteTasks)
	case model.GetSystemInfo:
		info, err := r.panel.SystemInfo(ctx)
		if err != nil {
			return nil, err
		}
		return model.SystemSnapshot{Info: info}, nil
	default:
		return nil, fmt.Errorf("unhandled intent %T", intent)
	}
}

// listVariables fetches the full remote collection and filters locally, so
// search semantics and ordering do not depend on the panel's own filter.
func (r *Router) listVariables(ctx context.Context, in model.ListVariables) (model.Result, error) {
	envs, err := r.panel.ListEnvs(ctx, "")
	if err != nil {
		return nil, err
	}
	return model.VariablePage{Page: Paginate(envs, in.Page, r.pageSize)}, nil
}

func (r *Router) addVariable(ctx context.Context, in model.AddVariable) (model.Result, error) {
	if in.Name == "" {
		return nil, &model.ValidationError{Field: "name"}
	}
	if in.Value == "" {
		return nil, &model.ValidationError{Field: "value"}
	}
	env, err := r.panel.CreateEnv(ctx, in.Name, in.Value, in.Remark)
	if err != nil {
		return nil, err
	}
	r.logger.Info("variable added", "name", env.Name, "id", env.ID)
	return model.VariableSaved{Variable: env}, nil
}

// updateVariable replaces only the value; the stored name and remark are
// carried over from the resolved record.
func (r *Router) updateVariable(ctx context.Context, in model.UpdateVariable) (model.Result, error) {
	if in.Value == "" {
		return nil, &model.ValidationError{Field: "value"}
	}
	env, err := r.resolver.ResolveVariable(ctx, in.Ref)
	if err != nil {
		return nil, err
	}
	env.Value = in.Value
	if err := r.panel.UpdateEnv(ctx, env); err != nil {
		return nil, err
	}
	r.logger.Info("variable updated", "name", env.Name, "id", env.ID)
	return model.VariableSaved{Variable: env}, nil
}

func (r *Router) deleteVariable(ctx context.Context, in model.DeleteVariable) (model.Result, error) {
	env, err := r.resolver.ResolveVariable(ctx, in.Ref)
	if err != nil {
		return nil, err
	}
	if err := r.panel.DeleteEnvs(ctx, []int64{env.ID}); err != nil {
		return nil, err
	}
	r.logger.Info("variable deleted", "name", env.Name, "id", env.ID)
	return model.Acted{Action: "delete", ID: env.ID, Name: env.Name}, nil
}

func (r *Router) setVariableEnabled(ctx context.Context, in model.SetVariableEnabled) (model.Result, error) {
	env, err := r.resolver.ResolveVariable(ctx, in.Ref)
	if err != nil {
		return nil, err
	}
	if err := r.panel.SetEnvsEnabled(ctx, []int64{env.ID}, in.Enabled); err != nil {
		return nil, err
	}
	action := "disable"
	if in.Enabled {
		action = "enable"
	}
	return model.Acted{Action: action, ID: env.ID, Name: env.Name}, nil
}

func (r *Router) listTasks(ctx context.Context, in model.ListTasks) (model.Result, error) {
	tasks, err := r.panel.ListTasks(ctx, "")
	if err != nil {
		return nil, err
	}
	return model.TaskPage{Page: Paginate(tasks, in.Page, r.pageSize)}, nil
}

func (r *Router) taskLog(ctx context.Context, in model.GetTaskLog) (model.Result, error) {
	task, err := r.resolver.ResolveTask(ctx, in.Ref)
	if err != nil {
		return nil, err
	}
	content, err := r.panel.TaskLog(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return model.TaskLog{TaskID: task.ID, Content: content}, nil
}

// taskAction resolves a task reference and applies one bulk panel call to
// its single resolved ID.
func (r *Router) taskAction(ctx context.Context, ref model.Ref, action string, call func(context.Context, []int64) error) (model.Result, error) {
	task, err := r.resolver.ResolveTask(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := call(ctx, []int64{task.ID}); err != nil {
		return nil, err
	}
	r.logger.Info("task action", "action", action, "name", task.Name, "id", task.ID)
	return model.Acted{Action: action, ID: task.ID, Name: task.Name}, nil
}
