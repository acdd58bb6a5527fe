package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// InitGlobalTracer installs a Jaeger tracer configured from the JAEGER_*
// environment variables. The returned closer flushes pending spans.
func InitGlobalTracer(serviceName string) (io.Closer, error) {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}
	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(jaegerLogger{}))
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}

// jaegerLogger forwards the reporter's messages to logrus.
type jaegerLogger struct{}

func (jaegerLogger) Error(msg string) {
	logrus.WithField("component", "jaeger").Error(msg)
}

func (jaegerLogger) Infof(msg string, args ...interface{}) {
	logrus.WithField("component", "jaeger").Infof(msg, args...)
}
