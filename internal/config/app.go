package config

import "time"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	defaultTimezone    = "Asia/Kolkata"
	defaultMetricsAddr = ":9091"
)

type AppConfig struct {
	TimezoneName         string `yaml:"timezone"`
	StorageDriver        string `yaml:"storage"`
	KeepCreatedAtOnEdit  bool   `yaml:"preserve-created-at"`
	MetricsServerAddress string `yaml:"metrics-addr"`
}

func (s *AppConfig) applyDefaults() {
	if s.TimezoneName == "" {
		s.TimezoneName = defaultTimezone
	}
	if s.StorageDriver == "" {
		s.StorageDriver = StorageMemory
	}
	if s.MetricsServerAddress == "" {
		s.MetricsServerAddress = defaultMetricsAddr
	}
}

// Location falls back to UTC when the configured zone is unknown to the host.
func (s *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.TimezoneName)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *AppConfig) Storage() string {
	return s.StorageDriver
}

func (s *AppConfig) PreserveCreatedAt() bool {
	return s.KeepCreatedAtOnEdit
}

func (s *AppConfig) MetricsAddr() string {
	return s.MetricsServerAddress
}
