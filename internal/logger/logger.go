package logger

import (
	"io"
	"log/slog"
	"os"
)

var log *slog.Logger

// Init настраивает глобальный slog-логгер по окружению:
// development - текст с debug, test - только предупреждения, иначе JSON с info
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

func InitWithWriter(env string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true}

	var handler slog.Handler
	switch env {
	case "development":
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	case "test":
		opts.Level = slog.LevelWarn
		opts.AddSource = false
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

func GetLogger() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

func Debug(msg string, args ...any) { GetLogger().Debug(msg, args...) }
func Info(msg string, args ...any)  { GetLogger().Info(msg, args...) }
func Warn(msg string, args ...any)  { GetLogger().Warn(msg, args...) }
func Error(msg string, args ...any) { GetLogger().Error(msg, args...) }

// Fatal пишет ошибку и завершает процесс с кодом 1
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// Component - логгер подсистемы (media, audit, settings)
func Component(name string) *slog.Logger {
	return With("component", name)
}

// StorageLog - операция с файловым хранилищем; неудачи идут на уровне warn
func StorageLog(operation, key string, err error) {
	if err != nil {
		Component("storage").Warn("storage operation failed", "operation", operation, "key", key, "error", err.Error())
		return
	}
	Component("storage").Debug("storage operation", "operation", operation, "key", key)
}
