// Package config manages persistent settings for jitterpool-based tools:
// the stream format/buffering defaults and a list of recently used network
// endpoints. Settings are stored as JSON at
// os.UserConfigDir()/jitterpool/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"jitterpool"
)

// Endpoint is a saved network peer, shown in a connect-to-recent list.
type Endpoint struct {
	Label string `json:"label"`
	Addr  string `json:"addr"`
}

// Persisted holds everything saved across runs: the stream configuration
// and recently used endpoints.
type Persisted struct {
	Stream    jitterpool.Config `json:"stream"`
	Endpoints []Endpoint        `json:"endpoints"`
}

// Default returns a Persisted populated with sensible defaults for a
// stereo 48kHz 16-bit stream at 20ms packets.
func Default() Persisted {
	return Persisted{
		Stream: jitterpool.Config{
			SampleRate:      48000,
			Channels:        2,
			BitResolution:   2,
			FramesPerPacket: 960,
			PoolSize:        8,
			RcvLag:          2,
			Mode:            jitterpool.ModeSmoothedLPC,
		},
	}
}

// Path returns the absolute path to the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jitterpool", "config.json"), nil
}

// Load reads the config file and returns it. If the file is missing or
// unreadable, the default config is returned — never an error.
func Load() Persisted {
	path, err := Path()
	if err != nil {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	return cfg
}

// Save writes cfg to disk, creating the directory if needed.
func Save(cfg Persisted) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// AddEndpoint records addr/label as the most recently used endpoint,
// de-duplicating by address and capping the list at 10 entries.
func (p *Persisted) AddEndpoint(label, addr string) {
	filtered := p.Endpoints[:0]
	for _, e := range p.Endpoints {
		if e.Addr != addr {
			filtered = append(filtered, e)
		}
	}
	p.Endpoints = append([]Endpoint{{Label: label, Addr: addr}}, filtered...)
	const maxEndpoints = 10
	if len(p.Endpoints) > maxEndpoints {
		p.Endpoints = p.Endpoints[:maxEndpoints]
	}
}
