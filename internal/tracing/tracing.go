package tracing

import (
	"io"

	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/logger"
)

type config interface {
	ServiceName() string
	AgentHostPort() string
	SamplerParam() float64
}

// Init registers a jaeger tracer as the opentracing global tracer.
// The returned closer flushes pending spans.
func Init(cfg config) (io.Closer, error) {
	jcfg := jaegercfg.Configuration{
		ServiceName: cfg.ServiceName(),
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: cfg.SamplerParam(),
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: cfg.AgentHostPort(),
		},
	}

	closer, err := jcfg.InitGlobalTracer(cfg.ServiceName())
	if err != nil {
		return nil, errors.Wrap(err, "init tracer")
	}
	logger.Info("tracer initialized", zap.String("service", cfg.ServiceName()))
	return closer, nil
}
