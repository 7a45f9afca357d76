package stages_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askiada/go-provision/internal/netutil"
	"github.com/askiada/go-provision/internal/stages"
	"github.com/askiada/go-provision/pkg/pipeline/model"
)

type fakeInventory struct {
	has      bool
	hasErr   error
	pulls    int
	pullErrs []error
}

func (f *fakeInventory) HasModel(_ context.Context, _ string) (bool, error) {
	return f.has, f.hasErr
}

func (f *fakeInventory) Pull(_ context.Context, _ string) error {
	f.pulls++
	if len(f.pullErrs) == 0 {
		return nil
	}

	err := f.pullErrs[0]
	f.pullErrs = f.pullErrs[1:]

	return err
}

type fakeHandle struct {
	stops   int
	stopErr error
}

func (f *fakeHandle) Stop() error {
	f.stops++

	return f.stopErr
}

type modelHarness struct {
	inventory *fakeInventory
	handle    *fakeHandle
	serves    int
	serveErr  error
	probes    int
	probeErr  error
}

func (h *modelHarness) stage(policy model.RetryPolicy) *stages.ModelPull {
	serve := func(_ context.Context) (stages.Handle, error) {
		h.serves++
		if h.serveErr != nil {
			return nil, h.serveErr
		}

		return h.handle, nil
	}
	probe := func(_ context.Context) error {
		h.probes++

		return h.probeErr
	}

	return stages.NewModelPull(h.inventory, serve, probe, "deepseek-r1:7b", policy, zap.NewNop())
}

func newModelHarness() *modelHarness {
	return &modelHarness{inventory: &fakeInventory{}, handle: &fakeHandle{}}
}

func TestModelPullCheckPresent(t *testing.T) {
	t.Parallel()

	h := newModelHarness()
	h.inventory.has = true

	ok, err := h.stage(model.DefaultRetry).Check(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestModelPullCheckAbsent(t *testing.T) {
	t.Parallel()

	h := newModelHarness()

	ok, err := h.stage(model.DefaultRetry).Check(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModelPullCheckRuntimeUnreachable(t *testing.T) {
	t.Parallel()

	h := newModelHarness()
	h.inventory.hasErr = errors.New("connection refused")

	ok, err := h.stage(model.DefaultRetry).Check(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModelPullRun(t *testing.T) {
	t.Parallel()

	h := newModelHarness()

	err := h.stage(model.RetryPolicy{Attempts: 3}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, h.serves)
	assert.Equal(t, 1, h.probes)
	assert.Equal(t, 1, h.inventory.pulls)
	assert.Equal(t, 1, h.handle.stops)
}

func TestModelPullRunRetriesPull(t *testing.T) {
	t.Parallel()

	h := newModelHarness()
	h.inventory.pullErrs = []error{errors.New("pull interrupted"), errors.New("pull interrupted")}

	err := h.stage(model.RetryPolicy{Attempts: 3}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, h.inventory.pulls)
	// The runtime is spawned once, not once per attempt.
	assert.Equal(t, 1, h.serves)
	assert.Equal(t, 1, h.handle.stops)
}

func TestModelPullRunPullExhausted(t *testing.T) {
	t.Parallel()

	h := newModelHarness()
	h.inventory.pullErrs = []error{
		errors.New("pull interrupted"),
		errors.New("pull interrupted"),
		errors.New("pull interrupted"),
	}

	err := h.stage(model.RetryPolicy{Attempts: 3}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to pull model deepseek-r1:7b")
	assert.Equal(t, 3, h.inventory.pulls)
	assert.Equal(t, 1, h.handle.stops)
}

func TestModelPullRunProbeFails(t *testing.T) {
	t.Parallel()

	h := newModelHarness()
	h.probeErr = errors.New("timeout waiting for http://localhost:11434 after 30s")

	err := h.stage(model.RetryPolicy{Attempts: 3}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime never became ready")
	assert.Zero(t, h.inventory.pulls)
	assert.Equal(t, 1, h.handle.stops)
}

func TestModelPullRunServeFails(t *testing.T) {
	t.Parallel()

	h := newModelHarness()
	h.serveErr = errors.New("unable to start ollama")

	err := h.stage(model.RetryPolicy{Attempts: 3}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to start runtime")
	assert.Zero(t, h.probes)
	assert.Zero(t, h.handle.stops)
}

func TestModelPullEndToEnd(t *testing.T) {
	t.Parallel()

	var probes int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		probes++
		if probes < 2 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)

			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			require.NoError(t, conn.Close())

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := newModelHarness()

	serve := func(_ context.Context) (stages.Handle, error) {
		h.serves++

		return h.handle, nil
	}
	probe := func(ctx context.Context) error {
		return netutil.WaitForHTTP(ctx, srv.URL, 2*time.Second, 10*time.Millisecond)
	}

	stage := stages.NewModelPull(h.inventory, serve, probe, "deepseek-r1:7b", model.RetryPolicy{Attempts: 3}, zap.NewNop())

	err := stage.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, h.serves)
	assert.Equal(t, 2, probes)
	assert.Equal(t, 1, h.inventory.pulls)
	assert.Equal(t, 1, h.handle.stops)
}

func TestModelPullRunStopErrorDoesNotFail(t *testing.T) {
	t.Parallel()

	h := newModelHarness()
	h.handle.stopErr = errors.New("process already gone")

	err := h.stage(model.DefaultRetry).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, h.handle.stops)
}
