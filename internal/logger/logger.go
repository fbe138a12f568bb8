// internal/logger/logger.go
package logger

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/grocery-browser/internal/config"
)

// Configure sets the global logrus level and formatter. JSON output is used
// in production unless a format is given explicitly.
func Configure(cfg config.LogConfig, production bool, out io.Writer) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	format := cfg.Format
	if format == "" {
		format = "text"
		if production {
			format = "json"
		}
	}
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if out != nil {
		logrus.SetOutput(out)
	}
}
