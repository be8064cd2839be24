package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides lets deployments override flags without touching the
// command line. Unset variables leave the flag values alone.
type envOverrides struct {
	Addr       string `env:"ALTAR_ADDR"`
	WorldID    string `env:"ALTAR_WORLD"`
	ConfigDir  string `env:"ALTAR_CONFIGS"`
	DataDir    string `env:"ALTAR_DATA"`
	TuningPath string `env:"ALTAR_TUNING"`
	DisableDB  *bool  `env:"ALTAR_DISABLE_DB"`

	IndexBackend    string `env:"ALTAR_INDEX_BACKEND" envDefault:"sqlite"`
	EnableAdminHTTP *bool  `env:"ALTAR_ENABLE_ADMIN_HTTP"`
	EnablePprofHTTP bool   `env:"ALTAR_ENABLE_PPROF_HTTP"`
	DeployEnv       string `env:"DEPLOY_ENV"`
}

type serverFlags struct {
	Addr       string
	WorldID    string
	ConfigDir  string
	DataDir    string
	TuningPath string
	DisableDB  bool
}

func parseEnv() (envOverrides, error) {
	var e envOverrides
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

func (e envOverrides) apply(f *serverFlags) {
	if e.Addr != "" {
		f.Addr = e.Addr
	}
	if e.WorldID != "" {
		f.WorldID = e.WorldID
	}
	if e.ConfigDir != "" {
		f.ConfigDir = e.ConfigDir
	}
	if e.DataDir != "" {
		f.DataDir = e.DataDir
	}
	if e.TuningPath != "" {
		f.TuningPath = e.TuningPath
	}
	if e.DisableDB != nil {
		f.DisableDB = *e.DisableDB
	}
}

func (e envOverrides) adminHTTPEnabled() bool {
	if e.EnableAdminHTTP != nil {
		return *e.EnableAdminHTTP
	}
	switch e.DeployEnv {
	case "staging", "production":
		return false
	default:
		return true
	}
}
