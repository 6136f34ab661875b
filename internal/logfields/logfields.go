package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by the writers, the translator and the preview server.
const (
	KeyWriter      = "writer"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyNodeKind    = "node_kind"
	KeyOption      = "option"
	KeyField       = "field"
	KeyStylesheet  = "stylesheet"
	KeyPath        = "path"
	KeyAddr        = "addr"
	KeyMethod      = "method"
	KeyStatus      = "status"
	KeyRequestID   = "request_id"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

func Writer(name string) slog.Attr       { return slog.String(KeyWriter, name) }
func Source(path string) slog.Attr       { return slog.String(KeySource, path) }
func Destination(path string) slog.Attr  { return slog.String(KeyDestination, path) }
func NodeKind(kind string) slog.Attr     { return slog.String(KeyNodeKind, kind) }
func Option(flag string) slog.Attr       { return slog.String(KeyOption, flag) }
func Field(name string) slog.Attr        { return slog.String(KeyField, name) }
func Stylesheet(name string) slog.Attr   { return slog.String(KeyStylesheet, name) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func Addr(a string) slog.Attr            { return slog.String(KeyAddr, a) }
func Method(m string) slog.Attr          { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr          { return slog.Int(KeyStatus, code) }
func RequestID(id string) slog.Attr      { return slog.String(KeyRequestID, id) }
func DurationMS(ms float64) slog.Attr    { return slog.Float64(KeyDurationMS, ms) }
func Elapsed(d time.Duration) slog.Attr  { return DurationMS(float64(d.Microseconds()) / 1000) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
