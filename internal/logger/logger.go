// Package logger configures logrus and the access log from the loaded config
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/go-watchlist/watchlist/cmd/watchlist/config"
)

const (
	internalLogFile = "watchlist.log"
	accessLogFile   = "access.log"
	errorLogFile    = "errors.log"
)

// Init initializes the logger
func Init() {
	if err := setup(config.Get().Logging); err != nil {
		log.WithError(err).Fatal("could not initialize logging")
	}
}

func setup(conf config.LoggingConf) error {
	log.SetReportCaller(false)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	parsedLevel, err := log.ParseLevel(conf.Internal.Level)
	if err != nil {
		log.WithError(err).Error("unknown log level, falling back to info")
		parsedLevel = log.InfoLevel
	}
	log.SetLevel(parsedLevel)

	out, err := openLog(conf.Internal.Dir, internalLogFile, conf.Internal.StdErr, true)
	if err != nil {
		return err
	}
	log.SetOutput(out)

	log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
	if conf.Internal.Smart.Enabled {
		f, err := openFile(conf.Internal.Smart.Dir, errorLogFile)
		if err != nil {
			return err
		}
		log.AddHook(newErrorHook(f))
	}
	return nil
}

// AccessLogWriter returns the writer for the http access log, or nil if
// access logging is not configured
func AccessLogWriter() io.Writer {
	w, err := accessLogWriter(config.Get().Logging.Access)
	if err != nil {
		log.WithError(err).Fatal("could not open access log")
	}
	return w
}

func accessLogWriter(conf config.LoggerConf) (io.Writer, error) {
	return openLog(conf.Dir, accessLogFile, conf.StdErr, false)
}

// openLog returns a writer to dir/name and, if stderr is set, to os.Stderr.
// With no dir the writer falls back to stderr if fallback is set and nil
// otherwise.
func openLog(dir, name string, stderr, fallback bool) (io.Writer, error) {
	var writers []io.Writer
	if dir != "" {
		f, err := openFile(dir, name)
		if err != nil {
			return nil, err
		}
		writers = append(writers, f)
	}
	if stderr || (dir == "" && fallback) {
		writers = append(writers, os.Stderr)
	}
	switch len(writers) {
	case 0:
		return nil, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func openFile(dir, name string) (*os.File, error) {
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open log file '%s'", path)
	}
	return f, nil
}

// errorHook duplicates entries of level error and above into a separate writer
type errorHook struct {
	out       io.Writer
	formatter log.Formatter
}

func newErrorHook(out io.Writer) *errorHook {
	return &errorHook{
		out:       out,
		formatter: &log.JSONFormatter{},
	}
}

// Levels implements the logrus.Hook interface
func (*errorHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel}
}

// Fire implements the logrus.Hook interface
func (h *errorHook) Fire(entry *log.Entry) error {
	data, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(data)
	return err
}
