package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Режимы логгера
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

var (
	logMu sync.RWMutex
	log   *zap.Logger
	sugar *zap.SugaredLogger
)

// Init выбирает конфигурацию zap по режиму из конфига.
func Init(mode string) error {
	switch mode {
	case ModeProduction:
		return InitProduction()
	case ModeDevelopment:
		return InitDevelopment()
	default:
		return fmt.Errorf("unknown log mode %q", mode)
	}
}

// InitProduction JSON-логгер для сервера
func InitProduction() error {
	return build(zap.NewProductionConfig())
}

// InitDevelopment консольный логгер для локальной отладки
func InitDevelopment() error {
	return build(zap.NewDevelopmentConfig())
}

func build(cfg zap.Config) error {
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	setLogger(l)
	return nil
}

// setLogger заменяет глобальный логгер zap и логгер пакета.
func setLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	zap.ReplaceGlobals(l)
	if log != nil {
		_ = log.Sync()
	}
	log = l
	sugar = l.Sugar()
}

// Log возвращает *zap.Logger, никогда не nil
func Log() *zap.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	if log != nil {
		return log
	}
	return zap.L()
}

// S возвращает *zap.SugaredLogger, никогда не nil
func S() *zap.SugaredLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	if sugar != nil {
		return sugar
	}
	return zap.S()
}

// Named дочерний логгер компонента
func Named(name string) *zap.Logger {
	return Log().Named(name)
}

// Sync сбрасывает буферы
func Sync() {
	logMu.RLock()
	defer logMu.RUnlock()
	if log != nil {
		_ = log.Sync()
	}
}
