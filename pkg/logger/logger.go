package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

// Init configures the process logger for the given environment.
// development gets text output and debug level, everything else JSON at info.
func Init(env string) {
	log = newDefault()

	switch env {
	case "development":
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "test":
		log.SetLevel(logrus.WarnLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output, mostly useful in tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func Debug(msg string, args ...any) {
	log.WithFields(fields(args)).Debug(msg)
}

func Info(msg string, args ...any) {
	log.WithFields(fields(args)).Info(msg)
}

func Warn(msg string, args ...any) {
	log.WithFields(fields(args)).Warn(msg)
}

func Error(msg string, args ...any) {
	log.WithFields(fields(args)).Error(msg)
}

func Fatal(msg string, args ...any) {
	log.WithFields(fields(args)).Fatal(msg)
}

// fields turns "key", value pairs into logrus fields. A bare error is
// stored under "error" and a dangling value under "arg".
func fields(args []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			f[logrus.ErrorKey] = v.Error()
		case string:
			if i+1 < len(args) {
				f[v] = normalize(args[i+1])
				i++
				continue
			}
			f["arg"] = v
		default:
			f[fmt.Sprintf("arg%d", i)] = v
		}
	}
	return f
}

func normalize(v any) any {
	if err, ok := v.(error); ok && err != nil {
		return err.Error()
	}
	return v
}
