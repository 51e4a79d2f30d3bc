// Package logger owns the process root zerolog logger and the request
// scoped children built from context
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pestwatch/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the root logger
type Options struct {
	Level     string // trace..panic, unknown values mean debug
	Format    string // "console" or "json"
	Service   string
	Component string
	Writer    io.Writer // nil means stdout
	// WithCaller adds file:line to every event
	WithCaller bool
	// SampleEvery keeps one event in N when above 1
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_* through the raw view, config itself logs so it cannot be used here
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(env.Get("LEVEL", "debug")),
		Format:      strings.ToLower(env.Get("FORMAT", "console")),
		Service:     env.Get("SERVICE", ""),
		Component:   env.Get("COMPONENT", ""),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

// Logger is the logging type handed around the codebase
type Logger = zerolog.Logger

var (
	initOnce sync.Once
	root     atomic.Pointer[Logger]
)

// Get returns the root logger, initializing it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger, only the first call has any effect
func Init(opt Options) {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root.Store(&l)
	})
}

func build(opt Options) Logger {
	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	fields := map[string]any{}
	for k, v := range opt.StaticFields {
		fields[k] = v
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fields["go_version"] = bi.GoVersion
	}
	if opt.Service != "" {
		fields["service"] = opt.Service
	}
	if opt.Component != "" {
		fields["component"] = opt.Component
	}

	zc := zerolog.New(out).Level(parseLevel(opt.Level)).With().Timestamp().Fields(fields)
	if opt.WithCaller {
		zc = zc.Caller()
	}
	l := zc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// parseLevel accepts zerolog's names plus "warning", anything else is debug
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel || lvl == zerolog.Disabled {
		return zerolog.DebugLevel
	}
	return lvl
}

type fieldsKey struct{}

// requestFields are attached once per request and grow as middleware learns more
type requestFields struct {
	requestID string
	userID    string
}

// WithRequest annotates ctx with the request id and, once authenticated, the caller
func WithRequest(ctx context.Context, reqID, userID string) context.Context {
	f, _ := ctx.Value(fieldsKey{}).(requestFields)
	if reqID != "" {
		f.requestID = reqID
	}
	if userID != "" {
		f.userID = userID
	}
	if f == (requestFields{}) {
		return ctx
	}
	return context.WithValue(ctx, fieldsKey{}, f)
}

// C returns a child logger enriched from ctx (request_id, user_id)
func C(ctx context.Context) *Logger {
	f, _ := ctx.Value(fieldsKey{}).(requestFields)
	if f == (requestFields{}) {
		return Get()
	}
	b := Get().With()
	if f.requestID != "" {
		b = b.Str("request_id", f.requestID)
	}
	if f.userID != "" {
		b = b.Str("user_id", f.userID)
	}
	ll := b.Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}
