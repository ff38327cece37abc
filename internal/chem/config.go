package chem

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/golang/glog"
)

// Documented defaults, §6.4: applied per-key when a JSON config omits it,
// and wholesale when the file is missing or fails to parse.
const (
	DefaultWidth       = 1920
	DefaultHeight      = 1080
	DefaultMoveBufSize = 1024
	DefaultMaxVMs      = 1024
	DefaultMovEnergy   = 1
	DefaultFixEnergy   = 1
	DefaultSplEnergy   = 1
	DefaultIfEnergy    = 0
)

// AtomEnergies holds the per-operator energy cost table.
type AtomEnergies struct {
	MovEnergy int64 `json:"mov_energy"`
	FixEnergy int64 `json:"fix_energy"`
	SplEnergy int64 `json:"spl_energy"`
	IfEnergy  int64 `json:"if_energy"`
}

// Config is the immutable-once-constructed set of parameters the core is
// built from. IsRunning/Stopped are the two mutable runtime flags §3.7
// calls out; they are not read back from JSON and are owned by the
// orchestrator once a Config is wired into a Core.
type Config struct {
	W           int          `json:"W"`
	H           int          `json:"H"`
	MaxVMs      int          `json:"max_vms"`
	MoveBufSize int          `json:"move_buf_size"`
	Atoms       AtomEnergies `json:"-"`
	Autorun     bool         `json:"autorun"`

	IsRunning bool `json:"-"`
	Stopped   bool `json:"-"`

	// Ambient, not part of spec.md §3.7: forwarded to the process
	// entrypoint and the optional HTTP/metrics boundary packages. All
	// three default to disabled (zero value) when absent.
	LogVerbosity int    `json:"log_verbosity"`
	MetricsAddr  string `json:"metrics_addr"`
	HTTPAddr     string `json:"http_addr"`
}

// configDoc mirrors Config's JSON shape but keeps the energy fields at the
// top level the way the reference config file lays them out (mov_energy,
// fix_energy, spl_energy, if_energy as siblings of W/H, not nested).
type configDoc struct {
	W            *int    `json:"W"`
	H            *int    `json:"H"`
	MaxVMs       *int    `json:"max_vms"`
	MoveBufSize  *int    `json:"move_buf_size"`
	MovEnergy    *int64  `json:"mov_energy"`
	FixEnergy    *int64  `json:"fix_energy"`
	SplEnergy    *int64  `json:"spl_energy"`
	IfEnergy     *int64  `json:"if_energy"`
	Autorun      *bool   `json:"autorun"`
	LogVerbosity *int    `json:"log_verbosity"`
	MetricsAddr  *string `json:"metrics_addr"`
	HTTPAddr     *string `json:"http_addr"`
}

// DefaultConfig returns the documented all-defaults configuration.
func DefaultConfig() Config {
	return Config{
		W:           DefaultWidth,
		H:           DefaultHeight,
		MaxVMs:      DefaultMaxVMs,
		MoveBufSize: DefaultMoveBufSize,
		Atoms: AtomEnergies{
			MovEnergy: DefaultMovEnergy,
			FixEnergy: DefaultFixEnergy,
			SplEnergy: DefaultSplEnergy,
			IfEnergy:  DefaultIfEnergy,
		},
		Autorun: false,
	}
}

// LoadConfig reads and decodes path as a §6.4 JSON config document. Missing
// keys fall back to the documented default for that key alone. A read or
// parse failure is logged at error level and substitutes an all-defaults
// Config; LoadConfig never returns an error for that reason — the caller
// always gets a usable Config back, per the §7 config-parse-failure
// policy.
func LoadConfig(path string) Config {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		glog.Errorf("chem: reading config %q: %v, using defaults", path, errors.WithStack(err))
		return cfg
	}

	var doc configDoc
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &doc); err != nil {
		glog.Errorf("chem: parsing config %q: %v, using defaults", path, errors.Wrapf(err, "unmarshal %s", path))
		return cfg
	}

	applyConfigDoc(&cfg, &doc)
	return cfg
}

func applyConfigDoc(cfg *Config, doc *configDoc) {
	if doc.W != nil {
		cfg.W = *doc.W
	}
	if doc.H != nil {
		cfg.H = *doc.H
	}
	if doc.MaxVMs != nil {
		cfg.MaxVMs = *doc.MaxVMs
	}
	if doc.MoveBufSize != nil {
		cfg.MoveBufSize = *doc.MoveBufSize
	}
	if doc.MovEnergy != nil {
		cfg.Atoms.MovEnergy = *doc.MovEnergy
	}
	if doc.FixEnergy != nil {
		cfg.Atoms.FixEnergy = *doc.FixEnergy
	}
	if doc.SplEnergy != nil {
		cfg.Atoms.SplEnergy = *doc.SplEnergy
	}
	if doc.IfEnergy != nil {
		cfg.Atoms.IfEnergy = *doc.IfEnergy
	}
	if doc.Autorun != nil {
		cfg.Autorun = *doc.Autorun
	}
	if doc.LogVerbosity != nil {
		cfg.LogVerbosity = *doc.LogVerbosity
	}
	if doc.MetricsAddr != nil {
		cfg.MetricsAddr = *doc.MetricsAddr
	}
	if doc.HTTPAddr != nil {
		cfg.HTTPAddr = *doc.HTTPAddr
	}
}
