package config

import "fmt"

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=%s"

type PostgresConfig struct {
	Hostname string `yaml:"host"`
	Db       string `yaml:"db"`
	User     string `yaml:"username"`
	Pswd     string `yaml:"password"`
	SSL      string `yaml:"sslmode"`
}

func (s *PostgresConfig) Host() string {
	return s.Hostname
}

func (s *PostgresConfig) Database() string {
	return s.Db
}

func (s *PostgresConfig) Username() string {
	return s.User
}

func (s *PostgresConfig) Password() string {
	return s.Pswd
}

func (s *PostgresConfig) SSLMode() string {
	if s.SSL == "" {
		return "disable"
	}
	return s.SSL
}

func (s *PostgresConfig) DSN() string {
	return fmt.Sprintf(dsnTemplate, s.User, s.Pswd, s.Hostname, s.Db, s.SSLMode())
}

// URL is the form golang-migrate expects.
func (s *PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s", s.User, s.Pswd, s.Hostname, s.Db, s.SSLMode())
}
