// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package xlog provides module-scoped structured loggers built on zap, in
// the style of the teacher's log.NewModuleLogger. Each subsystem requests
// its own named logger instead of writing to a single global sink, so log
// lines carry a "module" field for free.
package xlog

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Module names. Every package that logs declares a constant here so grep
// for a subsystem's log lines is a one-word search.
const (
	ModuleNode       = "node"
	ModuleConsensus  = "consensus"
	ModuleMiner      = "miner"
	ModuleMempool    = "mempool"
	ModuleP2P        = "p2p"
	ModuleSwap       = "swap"
	ModuleSPV        = "spv"
	ModuleSponsor    = "sponsor"
	ModuleCheckpoint = "checkpoint"
	ModuleAISafety   = "aisafety"
	ModuleAPIAuth    = "apiauth"
	ModuleStorage    = "storage"
	ModuleCmd        = "cmd"
)

var (
	mu     sync.Mutex
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base   *zap.Logger
	once   sync.Once
)

func root() *zap.Logger {
	once.Do(func() {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder := zapcore.NewConsoleEncoder(encCfg)
		core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
		base = zap.New(core)
	})
	return base
}

// SetLevel adjusts the global verbosity of every logger returned by
// NewModuleLogger, present and future, without recreating them.
func SetLevel(l zapcore.Level) {
	mu.Lock()
	defer mu.Unlock()
	level.SetLevel(l)
}

// NewModuleLogger returns a SugaredLogger tagged with the given module
// name. Call it once per package at init and keep the result as a package
// variable; loggers are cheap and safe for concurrent use.
func NewModuleLogger(module string) *zap.SugaredLogger {
	return root().With(zap.String("module", module)).Sugar()
}
