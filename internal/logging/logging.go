package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"qtermsim/internal/config"
)

const defaultFile = "qsim.log"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger from cfg. With a directory configured it writes to a
// rotating file, otherwise to stderr. The returned closer flushes the file.
func New(cfg config.Logging) (*zap.Logger, io.Closer, error) {
	encCfg := zap.NewProductionEncoderConfig()
	level := zap.InfoLevel
	if cfg.Debug {
		encCfg = zap.NewDevelopmentEncoderConfig()
		level = zap.DebugLevel
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	enc := zapcore.NewConsoleEncoder(encCfg)

	if cfg.Dir == "" {
		core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
		return zap.New(core), nopCloser{}, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "create log directory")
	}
	filename := cfg.File
	if filename == "" {
		filename = defaultFile
	}

	rot := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, filename),
		MaxSize:    10, // megabytes per file before rotation
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(rot), level)
	return zap.New(core, zap.AddCaller()), rot, nil
}
