package logger

import (
	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

func Get() *zap.SugaredLogger {
	if sugar == nil {
		l, _ := zap.NewDevelopment()
		sugar = l.Sugar()
	}
	return sugar
}

func Sync() {
	if sugar != nil {
		sugar.Sync()
	}
}
