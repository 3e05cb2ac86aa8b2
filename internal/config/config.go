package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// EnvPrefix namespaces environment overrides: physics.boat_mass is read
// from SAILSIM_PHYSICS_BOAT_MASS.
const EnvPrefix = "SAILSIM"

const (
	DefaultDuration = 60.0
	DefaultAddr     = ":8080"
	DefaultDataDir  = ".sailsim"
	DefaultTable    = "dinghy"
)

type Config struct {
	Physics  PhysicsConfig  `yaml:"physics" mapstructure:"physics"`
	Scenario ScenarioConfig `yaml:"scenario" mapstructure:"scenario"`
	Trim     TrimConfig     `yaml:"trim" mapstructure:"trim"`
	Polar    PolarConfig    `yaml:"polar" mapstructure:"polar"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	DataDir  string         `yaml:"data_dir" mapstructure:"data_dir" validate:"required"`
}

// PhysicsConfig mirrors dynamo.Constants. Cross-field rules live in
// Constants.Validate.
type PhysicsConfig struct {
	AirDensity     float64 `yaml:"air_density" mapstructure:"air_density" validate:"gt=0"`
	SailArea       float64 `yaml:"sail_area" mapstructure:"sail_area" validate:"gt=0"`
	HullDragCoeff  float64 `yaml:"hull_drag_coeff" mapstructure:"hull_drag_coeff" validate:"gt=0"`
	BoatMass       float64 `yaml:"boat_mass" mapstructure:"boat_mass" validate:"gt=0"`
	OptimalAOA     float64 `yaml:"optimal_aoa" mapstructure:"optimal_aoa" validate:"gt=0,lt=90"`
	StallStartAOA  float64 `yaml:"stall_start_aoa" mapstructure:"stall_start_aoa" validate:"gt=0,lt=90"`
	MaxLiftCoeff   float64 `yaml:"max_lift_coeff" mapstructure:"max_lift_coeff" validate:"gt=0"`
	MinDragCoeff   float64 `yaml:"min_drag_coeff" mapstructure:"min_drag_coeff" validate:"gt=0"`
	StallDragCoeff float64 `yaml:"stall_drag_coeff" mapstructure:"stall_drag_coeff" validate:"gt=0"`
	DT             float64 `yaml:"dt" mapstructure:"dt" validate:"gt=0,lte=1"`
	MinWindSpeed   float64 `yaml:"min_wind_speed" mapstructure:"min_wind_speed" validate:"gt=0"`
	MaxBoatSpeed   float64 `yaml:"max_boat_speed" mapstructure:"max_boat_speed" validate:"gt=0"`
	LuffAOA        float64 `yaml:"luff_aoa" mapstructure:"luff_aoa" validate:"gte=0"`
	MaxHeel        float64 `yaml:"max_heel" mapstructure:"max_heel" validate:"gt=0,lte=90"`
	HeelPerNewton  float64 `yaml:"heel_per_newton" mapstructure:"heel_per_newton" validate:"gt=0"`
	HeelResponse   float64 `yaml:"heel_response" mapstructure:"heel_response" validate:"gt=0"`
}

type ScenarioConfig struct {
	WindSpeed     float64 `yaml:"wind_speed" mapstructure:"wind_speed" validate:"gte=0,lte=100"`
	WindDirection float64 `yaml:"wind_direction" mapstructure:"wind_direction" validate:"gte=-360,lte=360"`
	SailAngle     float64 `yaml:"sail_angle" mapstructure:"sail_angle" validate:"gte=-180,lte=180"`
	Heading       float64 `yaml:"heading" mapstructure:"heading" validate:"gte=-360,lte=360"`
	Duration      float64 `yaml:"duration" mapstructure:"duration" validate:"gt=0"`
}

type TrimConfig struct {
	Mode      string  `yaml:"mode" mapstructure:"mode" validate:"oneof=hold manual feedforward auto"`
	TargetAOA float64 `yaml:"target_aoa" mapstructure:"target_aoa" validate:"gte=0,lt=90"`
	Kp        float64 `yaml:"kp" mapstructure:"kp" validate:"gte=0"`
	Ki        float64 `yaml:"ki" mapstructure:"ki" validate:"gte=0"`
	Kd        float64 `yaml:"kd" mapstructure:"kd" validate:"gte=0"`
	MaxRate   float64 `yaml:"max_rate" mapstructure:"max_rate" validate:"gt=0"`
}

// PolarConfig picks the reference table: a YAML file when File is set,
// otherwise the built-in named Table.
type PolarConfig struct {
	Table string `yaml:"table" mapstructure:"table" validate:"required_without=File"`
	File  string `yaml:"file" mapstructure:"file"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr" validate:"required"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=text json"`
}

func DefaultConfig() *Config {
	c := dynamo.DefaultConstants()
	return &Config{
		Physics: FromConstants(c),
		Scenario: ScenarioConfig{
			WindSpeed:     6,
			WindDirection: 90,
			SailAngle:     45,
			Heading:       0,
			Duration:      DefaultDuration,
		},
		Trim: TrimConfig{
			Mode:      "hold",
			TargetAOA: c.OptimalAOA,
			Kp:        2,
			Ki:        0.2,
			Kd:        0,
			MaxRate:   30,
		},
		Polar:   PolarConfig{Table: DefaultTable},
		Server:  ServerConfig{Addr: DefaultAddr},
		Log:     LogConfig{Level: "info", Format: "text"},
		DataDir: DefaultDataDir,
	}
}

func FromConstants(c dynamo.Constants) PhysicsConfig {
	return PhysicsConfig{
		AirDensity:     c.AirDensity,
		SailArea:       c.SailArea,
		HullDragCoeff:  c.HullDragCoeff,
		BoatMass:       c.BoatMass,
		OptimalAOA:     c.OptimalAOA,
		StallStartAOA:  c.StallStartAOA,
		MaxLiftCoeff:   c.MaxLiftCoeff,
		MinDragCoeff:   c.MinDragCoeff,
		StallDragCoeff: c.StallDragCoeff,
		DT:             c.DT,
		MinWindSpeed:   c.MinWindSpeed,
		MaxBoatSpeed:   c.MaxBoatSpeed,
		LuffAOA:        c.LuffAOA,
		MaxHeel:        c.MaxHeel,
		HeelPerNewton:  c.HeelPerNewton,
		HeelResponse:   c.HeelResponse,
	}
}

func (p PhysicsConfig) Constants() dynamo.Constants {
	return dynamo.Constants{
		AirDensity:     p.AirDensity,
		SailArea:       p.SailArea,
		HullDragCoeff:  p.HullDragCoeff,
		BoatMass:       p.BoatMass,
		OptimalAOA:     p.OptimalAOA,
		StallStartAOA:  p.StallStartAOA,
		MaxLiftCoeff:   p.MaxLiftCoeff,
		MinDragCoeff:   p.MinDragCoeff,
		StallDragCoeff: p.StallDragCoeff,
		DT:             p.DT,
		MinWindSpeed:   p.MinWindSpeed,
		MaxBoatSpeed:   p.MaxBoatSpeed,
		LuffAOA:        p.LuffAOA,
		MaxHeel:        p.MaxHeel,
		HeelPerNewton:  p.HeelPerNewton,
		HeelResponse:   p.HeelResponse,
	}
}

func (s ScenarioConfig) Inputs() dynamo.Inputs {
	return dynamo.Inputs{
		WindSpeed:     s.WindSpeed,
		WindDirection: s.WindDirection,
		SailAngle:     s.SailAngle,
		Heading:       s.Heading,
	}
}

var validate = validator.New()

// Validate runs the field rules and then the physics cross-checks.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := c.Physics.Constants().Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Load layers defaults, the optional YAML file at path and SAILSIM_*
// environment variables, then validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
