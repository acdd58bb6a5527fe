package common

import (
	"os"

	"github.com/sirupsen/logrus"
)

const ServiceName = "studioboard"

func init() {
	logger := logrus.StandardLogger()
	logger.Out = os.Stdout
	logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	logger.AddHook(&DefaultFieldsHook{})
}

// ConfigureLogging applies the level and format chosen at startup.
func ConfigureLogging(level string, json bool) {
	logger := logrus.StandardLogger()
	if json {
		logger.Formatter = &logrus.JSONFormatter{}
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("unknown log level %q, keep %s", level, logger.GetLevel())
		return
	}
	logger.SetLevel(lvl)
}

type DefaultFieldsHook struct {
}

func (hook *DefaultFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *DefaultFieldsHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = ServiceName
	return nil
}
