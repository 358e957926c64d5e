package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/config"
)

// Init builds the process logger and installs it as zap's global logger.
func Init(environment string, conf *config.LoggerConfig) error {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel -> %w", err)
	}

	var encoderConf zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if environment == "production" {
		encoderConf = zap.NewProductionEncoderConfig()
		encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConf)
	} else {
		encoderConf = zap.NewDevelopmentEncoderConfig()
		encoderConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConf)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if conf.File != "" {
		fileConf := zap.NewProductionEncoderConfig()
		fileConf.EncodeTime = zapcore.ISO8601TimeEncoder
		rotating := zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileConf), rotating, level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller()).
		With(zap.String("env", environment))
	zap.ReplaceGlobals(l)

	return nil
}
