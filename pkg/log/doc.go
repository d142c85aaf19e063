// Package log provides structured protocol logging for renderer control.
//
// Protocol capture is separate from operational logging (slog): it records
// every control action sent to a renderer, its response or fault, session
// state changes and dispatch errors as machine-readable events.
//
// # Basic Usage
//
//	// Console output during development
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// Binary capture
//	fl, _ := log.NewFileLogger("/tmp/renderer.rlog")
//	cfg.ProtocolLogger = fl
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # Correlation
//
// Every event carries the session ID of the control session that produced
// it. Action requests and their responses share an invocation ID.
//
// # File Format
//
// A log file (.rlog) starts with a Header record identifying the format
// version, followed by a stream of CBOR-encoded events. The renderctl-log
// tool views and summarises them.
package log
