package logger

import "go.uber.org/zap"

var log *zap.Logger

func Init() error {
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	log = l
	return nil
}

func L() *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return log
}
