package archivematica

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"preservation-api/config"
	"preservation-api/internal/domain/transfer"
)

func setupRemote(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(config.Archivematica{
		DashboardURL: srv.URL,
		StorageURL:   srv.URL + "/",
		Username:     "demo",
		APIKey:       "secret",
		Timeout:      5 * time.Second,
	}, zap.NewNop(), nil)

	return c, srv
}

func assertCredentials(t *testing.T, r *http.Request) {
	t.Helper()
	assert.Equal(t, "demo", r.URL.Query().Get("username"))
	assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_StartTransfer_Validation(t *testing.T) {
	var calls int32
	c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	tests := []struct {
		name string
		req  transfer.Request
	}{
		{"empty name", transfer.Request{Paths: []string{"/a"}}},
		{"blank name", transfer.Request{Name: "  ", Paths: []string{"/a"}}},
		{"no paths", transfer.Request{Name: "t"}},
		{"unknown type", transfer.Request{Name: "t", Type: "tarball", Paths: []string{"/a"}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.StartTransfer(context.Background(), tt.req)
			require.ErrorIs(t, err, transfer.ErrValidation)
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "no remote call on invalid input")
}

func TestClient_ApproveTransfer_UnknownType(t *testing.T) {
	var calls int32
	c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := c.ApproveTransfer(context.Background(), "transfer-a-1", "tarball")
	require.ErrorIs(t, err, transfer.ErrInvalidType)
	require.ErrorIs(t, err, transfer.ErrValidation)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestClient_StartTransfer(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantID  string
		wantErr bool
	}{
		{name: "success", status: http.StatusOK, body: map[string]any{"uuid": "T1"}, wantID: "T1"},
		{name: "remote error payload", status: http.StatusOK, body: map[string]any{"error": true, "message": "bad path"}, wantErr: true},
		{name: "missing uuid", status: http.StatusOK, body: map[string]any{"message": "ok"}, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, body: map[string]any{"error": true}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, pathStartTransfer, r.URL.Path)
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
				assertCredentials(t, r)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "transfer-relatorio", r.PostForm.Get("name"))
				assert.Equal(t, "standard", r.PostForm.Get("type"))
				assert.Equal(t, "/watched/a.pdf", r.PostForm.Get("paths[0]"))
				assert.Equal(t, "", r.PostForm.Get("row_ids[0]"))

				w.WriteHeader(tt.status)
				writeJSON(w, tt.body)
			})

			id, err := c.StartTransfer(context.Background(), transfer.Request{
				Name:  "transfer-relatorio",
				Paths: []string{"/watched/a.pdf"},
			})
			if tt.wantErr {
				require.ErrorIs(t, err, transfer.ErrRemote)
				assert.EqualError(t, err, "transfer start failed")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestClient_StartTransfer_DoesNotFollowRedirect(t *testing.T) {
	var followed int32
	c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login/" {
			atomic.AddInt32(&followed, 1)
			writeJSON(w, map[string]any{"uuid": "should-not-happen"})
			return
		}
		http.Redirect(w, r, "/login/", http.StatusFound)
	})

	_, err := c.StartTransfer(context.Background(), transfer.Request{Name: "t", Paths: []string{"/a"}})
	require.ErrorIs(t, err, transfer.ErrRemote)
	assert.Equal(t, int32(0), atomic.LoadInt32(&followed))
}

func TestClient_ApproveTransfer(t *testing.T) {
	c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathApprove, r.URL.Path)
		assertCredentials(t, r)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "standard", r.PostForm.Get("type"))
		assert.Equal(t, "dir-1", r.PostForm.Get("directory"))
		writeJSON(w, map[string]any{"message": "Approval successful.", "uuid": "T1"})
	})

	out, err := c.ApproveTransfer(context.Background(), "dir-1", "")
	require.NoError(t, err)
	assert.Equal(t, "T1", out["uuid"])
}

func TestClient_AttachMetadata(t *testing.T) {
	c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathCopyMetadata, r.URL.Path)
		assertCredentials(t, r)

		var body struct {
			SIPUUID     string   `json:"sip_uuid"`
			SourcePaths []string `json:"source_paths"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "S1", body.SIPUUID)
		require.Len(t, body.SourcePaths, 1)
		raw, err := base64.StdEncoding.DecodeString(body.SourcePaths[0])
		require.NoError(t, err)
		assert.Equal(t, "loc-1:<metadata/>", string(raw))

		writeJSON(w, map[string]any{"error": false})
	})

	_, err := c.AttachMetadata(context.Background(), "S1", "loc-1", "<metadata/>")
	require.NoError(t, err)
}

func TestClient_AttachMetadata_RemoteError(t *testing.T) {
	c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.AttachMetadata(context.Background(), "S1", "loc-1", "<metadata/>")
	require.ErrorIs(t, err, transfer.ErrRemote)
}

func TestClient_GetTransferStatus(t *testing.T) {
	c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transfer/status/T1/", r.URL.Path)
		assertCredentials(t, r)
		writeJSON(w, transfer.Status{Status: "PRESERVADO", Name: "transfer-a", SIPUUID: "S1", UUID: "T1"})
	})

	st, err := c.GetTransferStatus(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, "PRESERVADO", st.Status)
	assert.Equal(t, "S1", st.SIPUUID)
}

func TestClient_GetTransferStatus_TransportError(t *testing.T) {
	c, srv := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.GetTransferStatus(context.Background(), "T1")
	require.ErrorIs(t, err, transfer.ErrRemote)
	assert.EqualError(t, err, "transfer status failed")
}

func TestClient_DownloadArtifact(t *testing.T) {
	payload := []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0xff, 0x10}

	c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v2beta/file/missing/download/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "/api/v2beta/file/T1/download/", r.URL.Path)
		assertCredentials(t, r)
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	})

	got, err := c.DownloadArtifact(context.Background(), "T1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = c.DownloadArtifact(context.Background(), "missing")
	require.ErrorIs(t, err, transfer.ErrRemote)
}

func TestClient_ProcessArtifact(t *testing.T) {
	c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ingest/process/S1/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "default", body["processing_config"])
		writeJSON(w, map[string]any{"ok": true})
	})

	out, err := c.ProcessArtifact(context.Background(), "S1", "")
	require.NoError(t, err)
	assert.Equal(t, true, out["ok"])
}

func TestClient_ListFilters(t *testing.T) {
	tests := []struct {
		name          string
		aggregate     string
		wantUnapprove *string
		wantCompleted *string
	}{
		{"failed", "FALHA", strPtr("FALHA"), nil},
		{"preserved", "PRESERVADO", nil, strPtr("PRESERVADO")},
		{"started", "INICIADA", nil, nil},
		{"unknown", "COMPLETE", nil, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, map[string]any{"status": tt.aggregate, "results": []any{}})
			})

			un, err := c.ListUnapproved(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantUnapprove, un)

			co, err := c.ListCompleted(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantCompleted, co)
		})
	}
}

func TestClient_RemoveTransfer(t *testing.T) {
	tests := []struct {
		name        string
		listed      []map[string]string
		wantErr     error
		wantDeletes int32
	}{
		{
			name:        "absent from unapproved list",
			listed:      []map[string]string{{"uuid": "other"}},
			wantErr:     transfer.ErrNotFound,
			wantDeletes: 0,
		},
		{
			name:        "listed",
			listed:      []map[string]string{{"uuid": "other"}, {"uuid": "T1"}},
			wantDeletes: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var deletes int32
			c, _ := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
				switch {
				case r.Method == http.MethodGet && r.URL.Path == pathUnapproved:
					writeJSON(w, map[string]any{"status": "FALHA", "results": tt.listed})
				case r.Method == http.MethodDelete && r.URL.Path == "/api/transfer/T1/delete/":
					assertCredentials(t, r)
					atomic.AddInt32(&deletes, 1)
					writeJSON(w, map[string]any{"removed": true})
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			})

			msg, err := c.RemoveTransfer(context.Background(), "T1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.EqualError(t, err, "transfer not found")
			} else {
				require.NoError(t, err)
				assert.Equal(t, RemovedMessage, msg)
			}
			assert.Equal(t, tt.wantDeletes, atomic.LoadInt32(&deletes))
		})
	}
}

func strPtr(s string) *string { return &s }
