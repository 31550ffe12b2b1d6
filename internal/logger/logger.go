// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup applies the level and formatter. Unknown levels fall back to info.
func Setup(level string, json bool) {
	SetupTo(os.Stderr, level, json)
}

// SetupTo is Setup with an explicit output.
func SetupTo(out io.Writer, level string, json bool) {
	log.SetOutput(out)
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
