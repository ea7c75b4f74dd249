package qinglong_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qlbridge/qlbridge/internal/adapter/driven/qinglong"
	"github.com/qlbridge/qlbridge/internal/domain/model"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *qinglong.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return qinglong.NewClientWithHTTPClient(server.Client(), server.URL, "client-id", "client-secret", nil)
}

func writeEnvelope(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
		"data":    data,
	})
}

// tokenCounter serves /open/auth/token, handing out sequentially numbered
// tokens and counting issuances.
type tokenCounter struct {
	mu     sync.Mutex
	issues int
}

func (tc *tokenCounter) serve(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Path != "/open/auth/token" {
		return false
	}
	tc.mu.Lock()
	tc.issues++
	n := tc.issues
	tc.mu.Unlock()
	writeEnvelope(w, 200, "", map[string]any{
		"token":      fmt.Sprintf("tok-%d", n),
		"token_type": "Bearer",
	})
	return true
}

func (tc *tokenCounter) count() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.issues
}

func TestListEnvs_MapsPanelRecords(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		require.Equal(t, "/open/envs", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		writeEnvelope(w, 200, "", []map[string]any{
			{"id": 3, "name": "TOKEN", "value": "abc", "remarks": "main", "status": 0},
			{"id": 4, "name": "COOKIE", "value": "xyz", "remarks": "", "status": 1},
		})
	})

	client := newTestClient(t, handler)
	envs, err := client.ListEnvs(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, envs, 2)
	assert.Equal(t, model.EnvironmentVariable{ID: 3, Name: "TOKEN", Value: "abc", Remark: "main", Enabled: true}, envs[0])
	assert.Equal(t, model.EnvironmentVariable{ID: 4, Name: "COOKIE", Value: "xyz", Remark: "", Enabled: false}, envs[1])
}

func TestListEnvs_WrappedListPayload(t *testing.T) {
	// Some panel versions wrap list payloads as {"data": [...], "total": n}.
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		writeEnvelope(w, 200, "", map[string]any{
			"data":  []map[string]any{{"id": 1, "name": "A", "value": "v", "status": 0}},
			"total": 1,
		})
	})

	client := newTestClient(t, handler)
	envs, err := client.ListEnvs(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "A", envs[0].Name)
}

func TestListEnvs_PassesSearchValue(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		assert.Equal(t, "COOKIE", r.URL.Query().Get("searchValue"))
		writeEnvelope(w, 200, "", []map[string]any{})
	})

	client := newTestClient(t, handler)
	_, err := client.ListEnvs(context.Background(), "COOKIE")
	require.NoError(t, err)
}

func TestTokenIsReusedAcrossCalls(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		writeEnvelope(w, 200, "", []map[string]any{})
	})

	client := newTestClient(t, handler)
	for i := 0; i < 3; i++ {
		_, err := client.ListEnvs(context.Background(), "")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tokens.count())
}

func TestAuthFailureRetriesExactlyOnce(t *testing.T) {
	var tokens tokenCounter
	var envCalls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		envCalls++
		// The first token is "expired" on the panel side; only the
		// re-issued one works.
		if r.Header.Get("Authorization") != "Bearer tok-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeEnvelope(w, 200, "", []map[string]any{{"id": 1, "name": "A", "value": "v", "status": 0}})
	})

	client := newTestClient(t, handler)
	envs, err := client.ListEnvs(context.Background(), "")

	require.NoError(t, err)
	assert.Len(t, envs, 1)
	assert.Equal(t, 2, envCalls)
	assert.Equal(t, 2, tokens.count())
}

func TestSecondAuthFailureSurfacesAuthError(t *testing.T) {
	var tokens tokenCounter
	var envCalls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		envCalls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := newTestClient(t, handler)
	_, err := client.ListEnvs(context.Background(), "")

	var aerr *model.AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, 2, envCalls, "no third attempt after a second rejection")
	assert.Equal(t, 2, tokens.count())
}

func TestEnvelopeAuthCodeAlsoTriggersRetry(t *testing.T) {
	// The panel can reject a token with HTTP 200 and an envelope code of
	// 401; that must count as an authorization failure too.
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok-2" {
			writeEnvelope(w, 401, "token invalid", nil)
			return
		}
		writeEnvelope(w, 200, "", []map[string]any{})
	})

	client := newTestClient(t, handler)
	_, err := client.ListEnvs(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, tokens.count())
}

func TestAPIErrorMapping(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		writeEnvelope(w, 500, "internal scheduler error", nil)
	})

	client := newTestClient(t, handler)
	err := client.RunTasks(context.Background(), []int64{7})

	var aerr *model.APIError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, 500, aerr.Code)
	assert.Equal(t, "internal scheduler error", aerr.Message)
}

func TestNetworkErrorMapping(t *testing.T) {
	var tokens tokenCounter
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens.serve(w, r)
	}))
	client := qinglong.NewClientWithHTTPClient(server.Client(), server.URL, "id", "secret", nil)

	// Prime the token while the server is up, then kill it.
	_, err := client.SystemInfo(context.Background())
	_ = err
	server.Close()

	_, err = client.ListEnvs(context.Background(), "")
	var nerr *model.NetworkError
	require.ErrorAs(t, err, &nerr)
}

func TestTokenIssuanceRejectionIsAuthError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/open/auth/token", r.URL.Path)
		assert.Equal(t, "client-id", r.URL.Query().Get("client_id"))
		assert.Equal(t, "client-secret", r.URL.Query().Get("client_secret"))
		writeEnvelope(w, 400, "invalid client credentials", nil)
	})

	client := newTestClient(t, handler)
	_, err := client.ListEnvs(context.Background(), "")

	var aerr *model.AuthError
	require.ErrorAs(t, err, &aerr)
}

func TestCreateEnv_ReturnsAssignedID(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		require.Equal(t, http.MethodPost, r.Method)
		var payload []map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload, 1)
		assert.Equal(t, "TOKEN", payload[0]["name"])

		writeEnvelope(w, 200, "", []map[string]any{
			{"id": 42, "name": "TOKEN", "value": "abc", "remarks": "", "status": 0},
		})
	})

	client := newTestClient(t, handler)
	env, err := client.CreateEnv(context.Background(), "TOKEN", "abc", "")

	require.NoError(t, err)
	assert.Equal(t, int64(42), env.ID)
	assert.Equal(t, "abc", env.Value)
	assert.True(t, env.Enabled)
}

func TestUpdateEnv_SendsFullRecord(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		require.Equal(t, http.MethodPut, r.Method)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(9), payload["id"])
		assert.Equal(t, "TOKEN", payload["name"])
		assert.Equal(t, "new", payload["value"])
		assert.Equal(t, "keep", payload["remarks"])
		writeEnvelope(w, 200, "", nil)
	})

	client := newTestClient(t, handler)
	err := client.UpdateEnv(context.Background(), model.EnvironmentVariable{
		ID: 9, Name: "TOKEN", Value: "new", Remark: "keep",
	})
	require.NoError(t, err)
}

func TestDeleteEnvs_SendsIDArray(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		require.Equal(t, http.MethodDelete, r.Method)
		var ids []int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		assert.Equal(t, []int64{3, 5}, ids)
		writeEnvelope(w, 200, "", nil)
	})

	client := newTestClient(t, handler)
	require.NoError(t, client.DeleteEnvs(context.Background(), []int64{3, 5}))
}

func TestTaskActionPaths(t *testing.T) {
	cases := []struct {
		name string
		call func(*qinglong.Client, context.Context) error
		path string
	}{
		{"run", func(c *qinglong.Client, ctx context.Context) error { return c.RunTasks(ctx, []int64{1}) }, "/open/crons/run"},
		{"stop", func(c *qinglong.Client, ctx context.Context) error { return c.StopTasks(ctx, []int64{1}) }, "/open/crons/stop"},
		{"enable", func(c *qinglong.Client, ctx context.Context) error { return c.SetTasksEnabled(ctx, []int64{1}, true) }, "/open/crons/enable"},
		{"disable", func(c *qinglong.Client, ctx context.Context) error { return c.SetTasksEnabled(ctx, []int64{1}, false) }, "/open/crons/disable"},
		{"pin", func(c *qinglong.Client, ctx context.Context) error { return c.SetTasksPinned(ctx, []int64{1}, true) }, "/open/crons/pin"},
		{"unpin", func(c *qinglong.Client, ctx context.Context) error { return c.SetTasksPinned(ctx, []int64{1}, false) }, "/open/crons/unpin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var tokens tokenCounter
			var gotPath string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tokens.serve(w, r) {
					return
				}
				gotPath = r.URL.Path
				writeEnvelope(w, 200, "", nil)
			})

			client := newTestClient(t, handler)
			require.NoError(t, tc.call(client, context.Background()))
			assert.Equal(t, tc.path, gotPath)
		})
	}
}

func TestListTasks_MapsPanelRecords(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		writeEnvelope(w, 200, "", map[string]any{"data": []map[string]any{
			{"id": 11, "name": "signin", "command": "task signin.js", "schedule": "0 8 * * *", "isDisabled": 0, "isPinned": 1},
			{"id": 12, "name": "backup", "command": "task backup.js", "schedule": "0 2 * * *", "isDisabled": 1, "isPinned": 0},
		}})
	})

	client := newTestClient(t, handler)
	tasks, err := client.ListTasks(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].Enabled)
	assert.True(t, tasks[0].Pinned)
	assert.False(t, tasks[1].Enabled)
	assert.False(t, tasks[1].Pinned)
}

func TestTaskLog(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		require.Equal(t, "/open/crons/11/log", r.URL.Path)
		writeEnvelope(w, 200, "", "## start\nsigned in ok\n")
	})

	client := newTestClient(t, handler)
	log, err := client.TaskLog(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, "## start\nsigned in ok\n", log)
}

func TestSystemInfo(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		require.Equal(t, "/open/system", r.URL.Path)
		writeEnvelope(w, 200, "", map[string]any{
			"version": "2.17.0", "branch": "master", "isInitialized": true,
		})
	})

	client := newTestClient(t, handler)
	info, err := client.SystemInfo(context.Background())

	require.NoError(t, err)
	assert.Equal(t, model.SystemInfo{Version: "2.17.0", Branch: "master", Initialized: true}, info)
}

func TestRequestCountIsObservable(t *testing.T) {
	var tokens tokenCounter
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokens.serve(w, r) {
			return
		}
		writeEnvelope(w, 200, "", []map[string]any{})
	})

	client := newTestClient(t, handler)
	_, err := client.ListEnvs(context.Background(), "")
	require.NoError(t, err)

	// One token exchange plus one list request.
	assert.Equal(t, uint64(2), client.RequestCount())
}
