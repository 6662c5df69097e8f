package dirsdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tradex-insights/tradex/pkg/dirsdk"
)

func TestLogin(t *testing.T) {
	t.Run("returns matching record", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/rest/v1/rpc/demo_login", r.URL.Path)
			require.Equal(t, "anon-key", r.Header.Get("apikey"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "demo@x.com", body["login_email"])

			_ = json.NewEncoder(w).Encode(map[string]string{
				"id":    "demo-1",
				"name":  "Demo Manager",
				"email": "demo@x.com",
				"role":  "MANAGER",
			})
		}))
		defer srv.Close()

		client := dirsdk.NewClient(srv.URL, "anon-key")
		rec, err := client.Login(context.Background(), "demo@x.com", "pw")
		require.NoError(t, err)
		require.Equal(t, "demo-1", rec.ID)
		require.Equal(t, "MANAGER", rec.Role)
	})

	t.Run("null response means no match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("null"))
		}))
		defer srv.Close()

		client := dirsdk.NewClient(srv.URL, "")
		_, err := client.Login(context.Background(), "nobody@x.com", "pw")
		require.ErrorIs(t, err, dirsdk.ErrNoMatch)
	})

	t.Run("record without id means no match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{}"))
		}))
		defer srv.Close()

		client := dirsdk.NewClient(srv.URL, "")
		_, err := client.Login(context.Background(), "nobody@x.com", "pw")
		require.ErrorIs(t, err, dirsdk.ErrNoMatch)
	})

	t.Run("unreachable service maps to ErrUnavailable", func(t *testing.T) {
		client := dirsdk.NewClient("http://127.0.0.1:1", "")
		client.HTTPClient.Timeout = 200 * time.Millisecond

		_, err := client.Login(context.Background(), "a@x.com", "pw")
		require.ErrorIs(t, err, dirsdk.ErrUnavailable)
	})
}
