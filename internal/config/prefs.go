package config

import "time"

const (
	defaultPrefsDir          = "data/prefs"
	defaultMediaDir          = "data/media"
	defaultMediaTTLHours     = 24
	defaultMediaSweepMinutes = 60
)

type PrefsConfig struct {
	Directory string `yaml:"dir"`
}

func (p *PrefsConfig) applyDefaults() {
	if p.Directory == "" {
		p.Directory = defaultPrefsDir
	}
}

func (p *PrefsConfig) Dir() string {
	return p.Directory
}

type MediaConfig struct {
	Directory    string `yaml:"dir"`
	TTLHours     int64  `yaml:"ttl-hours"`
	SweepMinutes int64  `yaml:"sweep-minutes"`
}

func (m *MediaConfig) applyDefaults() {
	if m.Directory == "" {
		m.Directory = defaultMediaDir
	}
	if m.TTLHours <= 0 {
		m.TTLHours = defaultMediaTTLHours
	}
	if m.SweepMinutes <= 0 {
		m.SweepMinutes = defaultMediaSweepMinutes
	}
}

func (m *MediaConfig) Dir() string {
	return m.Directory
}

// TTL is how long a shared image stays on disk.
func (m *MediaConfig) TTL() time.Duration {
	return time.Duration(m.TTLHours) * time.Hour
}

func (m *MediaConfig) SweepInterval() time.Duration {
	return time.Duration(m.SweepMinutes) * time.Minute
}
