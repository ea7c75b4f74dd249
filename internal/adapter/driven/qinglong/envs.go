package qinglong

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/qlbridge/qlbridge/internal/domain/model"
)

// envJSON mirrors the panel's environment variable record. status 0 means
// enabled, 1 disabled.
type envJSON struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Remarks string `json:"remarks"`
	Status  int    `json:"status"`
}

func (e envJSON) toModel() model.EnvironmentVariable {
	return model.EnvironmentVariable{
		ID:      e.ID,
		Name:    e.Name,
		Value:   e.Value,
		Remark:  e.Remarks,
		Enabled: e.Status == 0,
	}
}

// ListEnvs fetches the panel's environment variables, optionally narrowed
// by the panel's own substring search. The caller is responsible for any
// deterministic filtering; search is passed through as-is.
func (c *Client) ListEnvs(ctx context.Context, search string) ([]model.EnvironmentVariable, error) {
	query := url.Values{}
	if search != "" {
		query.Set("searchValue", search)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/open/envs", query, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[envJSON](raw)
	if err != nil {
		return nil, err
	}

	envs := make([]model.EnvironmentVariable, 0, len(items))
	for _, item := range items {
		envs = append(envs, item.toModel())
	}
	return envs, nil
}

// CreateEnv creates one variable. The panel's create endpoint takes an
// array and echoes the created records back with their assigned IDs.
func (c *Client) CreateEnv(ctx context.Context, name, value, remark string) (model.EnvironmentVariable, error) {
	payload := []map[string]string{{
		"name":    name,
		"value":   value,
		"remarks": remark,
	}}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/open/envs", nil, payload, &raw); err != nil {
		return model.EnvironmentVariable{}, err
	}

	created, err := decodeList[envJSON](raw)
	if err == nil && len(created) > 0 {
		return created[0].toModel(), nil
	}
	// Some panel versions return an empty body on create; fall back to
	// the submitted fields without an ID.
	return model.EnvironmentVariable{Name: name, Value: value, Remark: remark, Enabled: true}, nil
}

// UpdateEnv replaces the variable identified by env.ID.
func (c *Client) UpdateEnv(ctx context.Context, env model.EnvironmentVariable) error {
	payload := map[string]any{
		"id":      env.ID,
		"name":    env.Name,
		"value":   env.Value,
		"remarks": env.Remark,
	}
	return c.do(ctx, http.MethodPut, "/open/envs", nil, payload, nil)
}

// DeleteEnvs removes the variables with the given IDs.
func (c *Client) DeleteEnvs(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodDelete, "/open/envs", nil, ids, nil)
}

// SetEnvsEnabled enables or disables the variables with the given IDs.
func (c *Client) SetEnvsEnabled(ctx context.Context, ids []int64, enabled bool) error {
	path := "/open/envs/disable"
	if enabled {
		path = "/open/envs/enable"
	}
	return c.do(ctx, http.MethodPut, path, nil, ids, nil)
}
