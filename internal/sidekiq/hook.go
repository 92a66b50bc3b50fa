package sidekiq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// logHook logs Redis commands and pipelines at debug level.
type logHook struct {
	logger *slog.Logger
}

func newLogHook(l *slog.Logger) redis.Hook {
	return logHook{logger: l.With(slog.String("module", "redis"))}
}

func (h logHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.WarnContext(ctx, "dial failed", slog.String("addr", addr), slog.Any("error", err))
		}
		return conn, err
	}
}

func (h logHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(ctx, formatCommand(cmd), time.Since(start), err)
		return err
	}
}

func (h logHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if len(cmds) == 0 {
			return next(ctx, cmds)
		}
		start := time.Now()
		err := next(ctx, cmds)
		h.logger.DebugContext(ctx, "redis pipeline",
			slog.Int("commands", len(cmds)),
			slog.Duration("duration", time.Since(start)),
		)
		for _, cmd := range cmds {
			h.record(ctx, formatCommand(cmd), 0, cmd.Err())
		}
		return err
	}
}

func (h logHook) record(ctx context.Context, command string, duration time.Duration, err error) {
	attrs := []slog.Attr{
		slog.String("command", command),
		slog.Duration("duration", duration),
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		attrs = append(attrs, slog.Any("error", err))
	}
	h.logger.LogAttrs(ctx, slog.LevelDebug, "redis command", attrs...)
}

func formatCommand(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) == 0 {
		return cmd.Name()
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, " ")
}
