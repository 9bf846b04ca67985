// Package errors provides unified error handling for mechkit.
// It implements a structured error type with machine-readable codes,
// cause chaining, and a details map for attaching diagnostic metadata
// (key names, member names, source values) to a failure.
package errors
