package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/logger"
	"github.com/san-kum/sailsim/internal/polar"
	"github.com/san-kum/sailsim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *sim.Guarded) {
	t.Helper()
	g := sim.NewGuarded(sim.New(dynamo.DefaultConstants(), dynamo.Inputs{WindSpeed: 6, WindDirection: 90, SailAngle: 45}))
	return New(g, logger.Discard(), opts...), g
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rec := do(t, s.Routes(), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestTables(t *testing.T) {
	t.Parallel()
	custom, err := polar.NewTable("custom", "1", []float64{5, 10}, []float64{60, 120}, [][]float64{{3, 4}, {5, 6}})
	require.NoError(t, err)
	s, _ := newTestServer(t, WithTable(custom))

	rec := do(t, s.Routes(), http.MethodGet, "/api/polar/tables", "")
	require.Equal(t, http.StatusOK, rec.Code)

	tables := decode[[]TableInfo](t, rec)
	names := make([]string, len(tables))
	for i, ti := range tables {
		names[i] = ti.Name
	}
	assert.Equal(t, []string{"custom", "dinghy", "keelboat"}, names)
	assert.Equal(t, []float64{5, 10}, tables[0].WindSpeeds)
	assert.Equal(t, []float64{60, 120}, tables[0].WindAngles)
}

func TestSpeed(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	h := s.Routes()

	tests := []struct {
		name   string
		target string
		status int
		speed  float64
	}{
		{"interpolated", "/api/polar/speed?table=dinghy&tws=9&twa=90", http.StatusOK, 5.75},
		{"default table", "/api/polar/speed?tws=9&twa=90", http.StatusOK, 5.75},
		{"unknown table", "/api/polar/speed?table=nope&tws=9&twa=90", http.StatusNotFound, 0},
		{"missing tws", "/api/polar/speed?table=dinghy&twa=90", http.StatusBadRequest, 0},
		{"bad twa", "/api/polar/speed?table=dinghy&tws=9&twa=abc", http.StatusBadRequest, 0},
		{"nan tws", "/api/polar/speed?table=dinghy&tws=NaN&twa=90", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusOK {
				assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
				return
			}
			resp := decode[SpeedResponse](t, rec)
			assert.Equal(t, "dinghy", resp.Table)
			assert.InDelta(t, tt.speed, resp.Speed, 1e-9)
		})
	}
}

func TestStateReportsTarget(t *testing.T) {
	t.Parallel()
	table, err := polar.Builtin("dinghy")
	require.NoError(t, err)

	withPolar, g := newTestServer(t, WithPolar(polar.NewInterpolator(table)))
	for i := 0; i < 120; i++ {
		g.Tick()
	}
	rec := do(t, withPolar.Routes(), http.MethodGet, "/api/sim/state", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[StateResponse](t, rec)
	assert.InDelta(t, 2.0, resp.State["time"], 1e-6)
	assert.Equal(t, 6.0, resp.State["wind_speed"])
	assert.Greater(t, resp.BoatSpeedKn, 0.0)
	assert.Equal(t, g.State().Regime.String(), resp.Regime)
	require.NotNil(t, resp.TargetKn)
	assert.Greater(t, *resp.TargetKn, 0.0)

	plain, _ := newTestServer(t)
	resp = decode[StateResponse](t, do(t, plain.Routes(), http.MethodGet, "/api/sim/state", ""))
	assert.Nil(t, resp.TargetKn)
}

func TestControls(t *testing.T) {
	t.Parallel()

	t.Run("partial update", func(t *testing.T) {
		s, g := newTestServer(t)
		rec := do(t, s.Routes(), http.MethodPut, "/api/sim/controls", `{"sail_angle": 20, "heading": 0}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		in := g.State().Inputs
		assert.Equal(t, 20.0, in.SailAngle)
		assert.Equal(t, 6.0, in.WindSpeed, "omitted fields are untouched")
		assert.Equal(t, 20.0, decode[StateResponse](t, rec).State["sail_angle"])
	})

	t.Run("zero is a value", func(t *testing.T) {
		s, g := newTestServer(t)
		rec := do(t, s.Routes(), http.MethodPut, "/api/sim/controls", `{"wind_speed": 0}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0.0, g.State().WindSpeed)
	})

	rejects := []struct {
		name string
		body string
		msg  string
	}{
		{"empty", `{}`, "no controls"},
		{"not json", `sail`, "invalid request body"},
		{"unknown field", `{"boom": 3}`, "invalid request body"},
		{"negative wind", `{"wind_speed": -1}`, "wind_speed"},
		{"sail out of range", `{"sail_angle": 200}`, "sail_angle"},
	}
	for _, tt := range rejects {
		t.Run(tt.name, func(t *testing.T) {
			s, g := newTestServer(t)
			before := g.State().Inputs

			rec := do(t, s.Routes(), http.MethodPut, "/api/sim/controls", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[ErrorResponse](t, rec).Error, tt.msg)
			assert.Equal(t, before, g.State().Inputs)
		})
	}
}

func TestReset(t *testing.T) {
	t.Parallel()
	s, g := newTestServer(t)
	for i := 0; i < 60; i++ {
		g.Tick()
	}
	require.Greater(t, g.State().BoatSpeed, 0.0)

	rec := do(t, s.Routes(), http.MethodPost, "/api/sim/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	st := g.State()
	assert.Zero(t, st.Time)
	assert.Zero(t, st.BoatSpeed)
	assert.Equal(t, 45.0, st.SailAngle)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	rec := do(t, s.Routes(), http.MethodGet, "/api/sim/reset", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDriveTicksUntilCancelled(t *testing.T) {
	t.Parallel()
	s, g := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Drive(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return g.State().Time > 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Drive did not return after cancel")
	}
}
