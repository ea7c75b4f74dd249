package qinglong

import (
	"context"
	"net/http"

	"github.com/qlbridge/qlbridge/internal/domain/model"
)

// SystemInfo fetches the panel's read-only system snapshot.
func (c *Client) SystemInfo(ctx context.Context) (model.SystemInfo, error) {
	var data struct {
		Version       string `json:"version"`
		Branch        string `json:"branch"`
		IsInitialized bool   `json:"isInitialized"`
	}
	if err := c.do(ctx, http.MethodGet, "/open/system", nil, nil, &data); err != nil {
		return model.SystemInfo{}, err
	}
	return model.SystemInfo{
		Version:     data.Version,
		Branch:      data.Branch,
		Initialized: data.IsInitialized,
	}, nil
}
