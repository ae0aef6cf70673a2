package rbslot

import (
	"context"
	"log/slog"
	"net/http"
)

// SessionExpiry clears the session on HTTP 401 and sends the console back to
// login. Among concurrent 401s for the same token only the call that actually
// invalidates the session navigates. A call made without a token has nothing
// to clear and navigates straight away.
func SessionExpiry(s Session, nav Navigator, l *slog.Logger) Interceptor {
	return InterceptorFunc(func(ctx context.Context, call Call) {
		if call.Status != http.StatusUnauthorized || call.Login {
			return
		}
		if call.Token == "" || s == nil {
			l.Info("unauthenticated_call", slog.String("op", call.Op), slog.String("path", call.Path))
			if nav != nil {
				nav.ToLogin()
			}
			return
		}

		cleared, err := s.ClearIfToken(ctx, call.Token)
		if err != nil {
			l.Warn("session_clear_failed", slog.String("op", call.Op), slog.Any("err", err))
		}
		if !cleared {
			return
		}

		l.Info("session_expired", slog.String("op", call.Op), slog.String("path", call.Path))
		if nav != nil {
			nav.ToLogin()
		}
	})
}

// Logging logs each call at debug level and failures at warn.
func Logging(l *slog.Logger) Interceptor {
	return InterceptorFunc(func(ctx context.Context, call Call) {
		level := slog.LevelDebug
		attrs := []slog.Attr{
			slog.String("op", call.Op),
			slog.String("method", call.Method),
			slog.String("path", call.Path),
			slog.Int("status", call.Status),
			slog.Duration("latency", call.Duration),
		}
		if call.Err != nil {
			level = slog.LevelWarn
			attrs = append(attrs, slog.Any("err", call.Err))
		}
		l.LogAttrs(ctx, level, "upstream_call", attrs...)
	})
}
