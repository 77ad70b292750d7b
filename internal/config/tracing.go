package config

type TracingConfig struct {
	Service    string  `yaml:"service-name"`
	AgentHost  string  `yaml:"agent-host"`
	SampleRate float64 `yaml:"sample-rate"`
}

func (t *TracingConfig) applyDefaults() {
	if t.Service == "" {
		t.Service = "moneyezy-bot"
	}
}

func (t *TracingConfig) ServiceName() string {
	return t.Service
}

func (t *TracingConfig) AgentHostPort() string {
	return t.AgentHost
}

func (t *TracingConfig) SamplerParam() float64 {
	return t.SampleRate
}
