package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/polar"
	"github.com/san-kum/sailsim/internal/storage"
)

const maxBodyBytes = 1 << 16

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	out := make([]TableInfo, 0, len(s.tables))
	for _, name := range s.tableNames() {
		t := s.tables[name]
		out = append(out, TableInfo{
			Name:       t.Name(),
			Version:    t.Version(),
			WindSpeeds: t.WindSpeeds(),
			WindAngles: t.WindAngles(),
		})
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("table")
	if name == "" {
		name = polar.BuiltinNames()[0]
		if s.target != nil {
			name = s.target.Table().Name()
		}
	}
	t, ok := s.tables[name]
	if !ok {
		s.respondError(w, r, http.StatusNotFound, fmt.Sprintf("unknown polar table %q", name))
		return
	}

	tws, err := floatParam(q.Get("tws"), "tws")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	twa, err := floatParam(q.Get("twa"), "twa")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, SpeedResponse{
		Table: t.Name(),
		TWS:   tws,
		TWA:   twa,
		Speed: polar.NewInterpolator(t).SpeedFor(tws, twa),
	})
}

func floatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func (s *Server) stateResponse(st dynamo.State) StateResponse {
	resp := StateResponse{
		State:       storage.ExportStateOf(st),
		Regime:      st.Regime.String(),
		BoatSpeedKn: dynamo.Knots(st.BoatSpeed),
	}
	if s.target != nil {
		target := s.target.SpeedFor(dynamo.Knots(st.WindSpeed), math.Abs(st.TrueWindAngle))
		resp.TargetKn = &target
	}
	return resp
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.stateResponse(s.sim.State()))
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	var req ControlsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.empty() {
		s.respondError(w, r, http.StatusBadRequest, "no controls given")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	in := s.sim.Update(req.apply)
	s.logger.Info("controls updated",
		"wind_speed", in.WindSpeed,
		"wind_direction", in.WindDirection,
		"sail_angle", in.SailAngle,
		"heading", in.Heading)
	s.respondJSON(w, http.StatusOK, s.stateResponse(s.sim.State()))
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return fmt.Sprintf("invalid %s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return "invalid request"
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.sim.Reset()
	s.logger.Info("simulation reset")
	s.respondJSON(w, http.StatusOK, s.stateResponse(s.sim.State()))
}
