package logger

import (
	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

func Init() {
	base, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	log = base.Sugar()
}

func fieldsToArgs(fields map[string]any) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}

func Info(msg string, fields map[string]any) {
	log.Infow(msg, fieldsToArgs(fields)...)
}

func Warn(msg string, fields map[string]any) {
	log.Warnw(msg, fieldsToArgs(fields)...)
}

func Error(msg string, fields map[string]any) {
	log.Errorw(msg, fieldsToArgs(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	log.Fatalw(msg, fieldsToArgs(fields)...)
}
