// Package logger provides the interpreter's two log streams: an internal
// operational stream (zap, level-aware, stderr) and a user-facing stream
// (the destination for the `log{}` primitive's own output), kept distinct
// from each other via separate User() vs Info()/Warn()/Error() entry points.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/awantoch/uiscript/constants"
)

var (
	userLogger      *log.Logger
	userWriter      io.Writer = os.Stdout
	internalLogger  *zap.SugaredLogger
	loggerMode      = "production"
	loggerModeMutex sync.RWMutex
)

func init() {
	userLogger = log.New(userWriter, "", 0)
	initLoggers()
}

func initLoggers() {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if os.Getenv(constants.EnvDebug) != "" || getMode() == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	if l, err := cfg.Build(); err == nil {
		internalLogger = l.Sugar()
	}
}

// User writes to the user-facing stream (stdout by default). This is the
// stream the `log{}` primitive writes to, separate from internal diagnostics.
func User(format string, v ...any) {
	if userLogger != nil {
		userLogger.Printf(format, v...)
	}
}

func Info(format string, v ...any) {
	if internalLogger != nil {
		internalLogger.Infof(format, v...)
	}
}

func Warn(format string, v ...any) {
	if internalLogger != nil {
		internalLogger.Warnf(format, v...)
	}
}

func Error(format string, v ...any) {
	if internalLogger != nil {
		internalLogger.Errorf(format, v...)
	}
}

func Debug(format string, v ...any) {
	if internalLogger != nil {
		internalLogger.Debugf(format, v...)
	}
}

// Errorf logs the error and returns it as an error value, so call sites
// can `return logger.Errorf(...)`.
func Errorf(format string, v ...any) error {
	err := fmt.Errorf(format, v...)
	Error("%s", err.Error())
	return err
}

func SetUserOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	userWriter = w
	userLogger = log.New(userWriter, "", 0)
}

func SetInternalOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	internalLogger = zap.New(core).Sugar()
}

// SetMode switches between "production" and "debug" verbosity.
func SetMode(mode string) {
	loggerModeMutex.Lock()
	defer loggerModeMutex.Unlock()
	loggerMode = mode
	initLoggers()
}

func getMode() string {
	loggerModeMutex.RLock()
	defer loggerModeMutex.RUnlock()
	return loggerMode
}

// LoggerWriter adapts a logger.Xxx function to io.Writer, splitting on
// newlines and dropping blank lines, for wiring stdlib log.Logger output
// (e.g. http.Server.ErrorLog) into the internal stream.
type LoggerWriter struct {
	Fn     func(string, ...any)
	Prefix string
}

func (w *LoggerWriter) Write(p []byte) (n int, err error) {
	for _, line := range strings.Split(string(p), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if w.Prefix != "" {
			w.Fn("%s%s", w.Prefix, line)
		} else {
			w.Fn("%s", line)
		}
	}
	return len(p), nil
}
