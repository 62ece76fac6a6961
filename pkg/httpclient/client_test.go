package httpclient

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"name":"bazaar"}`))
	}))
	defer srv.Close()

	resp, err := Get(srv.URL).Send()
	require.NoError(t, err)
	assert.True(t, resp.OK())

	var body struct {
		OK   bool   `json:"ok"`
		Name string `json:"name"`
	}
	require.NoError(t, resp.JSON(&body))
	assert.True(t, body.OK)
	assert.Equal(t, "bazaar", body.Name)
}

func TestFormBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "bar", r.PostFormValue("foo"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := Post(srv.URL).Form(map[string]string{"foo": "bar"}).Send()
	require.NoError(t, err)
	assert.True(t, resp.OK())
}

func TestRetrySucceedsEventually(t *testing.T) {
	// First attempt times out, second answers immediately.
	var calls int32
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			time.Sleep(200 * time.Millisecond)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer slow.Close()

	resp, err := Get(slow.URL).
		Timeout(50 * time.Millisecond).
		Retry(2, 10*time.Millisecond).
		Send()
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestThrowOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	}))
	defer srv.Close()

	resp, err := Get(srv.URL).Send()
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.ErrorContains(t, resp.Throw(), "502")
	assert.Equal(t, "upstream broke", resp.Text())
}
