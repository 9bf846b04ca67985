// Package logger provides structured logging for mechkit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("magicbag")
//	log.Debug("mapping registered", logger.Fields("key", key))
package logger
