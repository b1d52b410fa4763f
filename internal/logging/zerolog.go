package logging

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface. The CLI uses
// it for its console writer; library code stays agnostic.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Debug(), msg, args)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Info(), msg, args)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Warn(), msg, args)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Error(), msg, args)
}

func (z *ZerologLogger) With(args ...any) Logger {
	c := z.l.With()
	for k, v := range pairs(args) {
		c = c.Interface(k, v)
	}
	return &ZerologLogger{l: c.Logger()}
}

func (z *ZerologLogger) emit(e *zerolog.Event, msg string, args []any) {
	for k, v := range pairs(args) {
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}

// pairs converts variadic key–value args into a map, stringifying odd keys.
func pairs(args []any) map[string]any {
	m := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		m[key] = args[i+1]
	}
	return m
}
