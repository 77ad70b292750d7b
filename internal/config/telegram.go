package config

type TelegramConfig struct {
	ApiToken  string `yaml:"token"`
	DebugMode bool   `yaml:"debug"`
}

func (t *TelegramConfig) Token() string {
	return t.ApiToken
}

func (t *TelegramConfig) Debug() bool {
	return t.DebugMode
}
