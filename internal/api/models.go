package api

import (
	"github.com/san-kum/sailsim/internal/dynamo"
	"github.com/san-kum/sailsim/internal/storage"
)

// TableInfo describes one polar table.
type TableInfo struct {
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	WindSpeeds []float64 `json:"wind_speeds"`
	WindAngles []float64 `json:"wind_angles"`
}

// SpeedResponse is a single polar lookup. Speeds are knots.
type SpeedResponse struct {
	Table string  `json:"table"`
	TWS   float64 `json:"tws"`
	TWA   float64 `json:"twa"`
	Speed float64 `json:"speed"`
}

// StateResponse wraps a snapshot keyed like the CSV export columns.
type StateResponse struct {
	State       storage.ExportState `json:"state"`
	Regime      string              `json:"regime"`
	BoatSpeedKn float64             `json:"boat_speed_kn"`
	TargetKn    *float64            `json:"target_kn,omitempty"`
}

// ControlsRequest sets any subset of the inputs. Omitted fields are left
// alone.
type ControlsRequest struct {
	WindSpeed     *float64 `json:"wind_speed"     validate:"omitempty,gte=0,lte=100"`
	WindDirection *float64 `json:"wind_direction" validate:"omitempty,gte=-360,lte=360"`
	SailAngle     *float64 `json:"sail_angle"     validate:"omitempty,gte=-180,lte=180"`
	Heading       *float64 `json:"heading"        validate:"omitempty,gte=-360,lte=360"`
}

func (c ControlsRequest) empty() bool {
	return c.WindSpeed == nil && c.WindDirection == nil && c.SailAngle == nil && c.Heading == nil
}

func (c ControlsRequest) apply(in *dynamo.Inputs) {
	if c.WindSpeed != nil {
		in.WindSpeed = *c.WindSpeed
	}
	if c.WindDirection != nil {
		in.WindDirection = *c.WindDirection
	}
	if c.SailAngle != nil {
		in.SailAngle = *c.SailAngle
	}
	if c.Heading != nil {
		in.Heading = *c.Heading
	}
}
