//go:build lambda

package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	log, err := newLogger(os.Getenv("SPELL_OPTIMIZER_VERBOSE") != "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := DefaultConfig()
	if path := os.Getenv("SPELL_OPTIMIZER_CONFIG"); path != "" {
		if cfg, err = LoadConfig(path); err != nil {
			log.Fatal("load config", zap.Error(err))
		}
	}
	solver, err := NewSolver(cfg, log, nil)
	if err != nil {
		log.Fatal("build solver", zap.Error(err))
	}
	h := &lambdaHandler{solver: solver, log: log}
	lambda.Start(h.handle)
}
