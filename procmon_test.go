package procmon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "all", cfg.ProcessType)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	require.NoError(t, cfg.Validate())
}

func TestFacadeRunAndView(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interval = 100 * time.Millisecond

	m := New(cfg)
	require.NotEmpty(t, m.SessionID())
	assert.Nil(t, m.View())
	assert.Empty(t, m.Alerts())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// The unfiltered monitor sees at least this test process.
	require.Eventually(t, func() bool { return m.View() != nil }, 5*time.Second, 50*time.Millisecond)
	assert.NotEmpty(t, m.View().Live)

	cancel()
	require.NoError(t, <-done)
}

func TestDashboardHandlerMounts(t *testing.T) {
	m := New(DefaultConfig())
	h := DashboardHandler(m)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/alerts", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
