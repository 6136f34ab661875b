// Package errors provides the classified error type used across kirlent.
//
// Every failure that reaches the command line or the preview server is a
// ClassifiedError: a category (config, validation, input, asset, ...), a
// severity and optional structured context. The CLI adapter turns categories
// into exit codes; the HTTP adapter turns them into status codes.
//
// Example usage:
//
//	err := errors.ConfigError("invalid slide size").
//		WithContext("option", "--slide-size").
//		WithContext("value", raw).
//		Build()
package errors
