// Package logger provides structured logging based on Zap.
//
// New builds a logger from Config: the debug level uses zap's development
// preset, other levels the production preset, and Format picks console or
// json encoding. Every component takes a *zap.Logger; tests pass zap.NewNop().
//
// # Request correlation
//
// The rayid middleware stores a ray id in the fiber locals. WithRayID attaches it
// to a logger so that every line about one request can be correlated.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	log.Info("Built collections", zap.Int("cards", n))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Catalog request failed", zap.Error(err))
package logger
