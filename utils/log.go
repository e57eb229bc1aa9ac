package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogLevel maps the integer verbosity used in input decks to a log level:
// 0 warnings only, 1-2 progress, 3-5 details, 6 and above everything.
func LogLevel(verbose int) logrus.Level {
	switch {
	case verbose <= 0:
		return logrus.WarnLevel
	case verbose < 3:
		return logrus.InfoLevel
	case verbose < 6:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

func NewLogger(verbose int, outO ...io.Writer) (log *logrus.Logger) {
	log = logrus.New()
	log.SetOutput(os.Stdout)
	if len(outO) != 0 {
		log.SetOutput(outO[0])
	}
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	log.SetLevel(LogLevel(verbose))
	return
}

// NewComponentLogger returns an entry tagged with the emitting component
func NewComponentLogger(verbose int, component string, outO ...io.Writer) *logrus.Entry {
	return NewLogger(verbose, outO...).WithField("component", component)
}
