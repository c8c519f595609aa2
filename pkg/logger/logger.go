package logger

import (
	"go.uber.org/zap"
)

// NOOPLogger discards everything. Components default to it when no logger
// is injected.
var NOOPLogger = zap.NewNop().Sugar()

// New returns a console logger for the local environment and a JSON
// production logger everywhere else.
func New(env string) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "local" || env == "" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar().With("env", env), nil
}
