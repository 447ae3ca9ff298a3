package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with domain helpers
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler in development, JSON in production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("request_id", requestID))}
}

// WithUserID adds user ID to logger context
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("user_id", userID))}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// LogEventCreated logs when an event is created
func (l *Logger) LogEventCreated(ctx context.Context, eventID uint64, owner string) {
	l.Logger.InfoContext(ctx,
		"Event Created",
		slog.Uint64("event_id", eventID),
		slog.String("owner", owner),
	)
}

// LogEventCancelled logs when an event is cancelled
func (l *Logger) LogEventCancelled(ctx context.Context, eventID uint64, refundMode string) {
	l.Logger.InfoContext(ctx,
		"Event Cancelled",
		slog.Uint64("event_id", eventID),
		slog.String("refund_mode", refundMode),
	)
}

// LogTicketMinted logs when a ticket is minted
func (l *Logger) LogTicketMinted(ctx context.Context, tokenID, eventID uint64, seat, owner string) {
	l.Logger.InfoContext(ctx,
		"Ticket Minted",
		slog.Uint64("token_id", tokenID),
		slog.Uint64("event_id", eventID),
		slog.String("seat", seat),
		slog.String("owner", owner),
	)
}

// LogRefundProcessed logs a completed refund transfer
func (l *Logger) LogRefundProcessed(ctx context.Context, tokenID, eventID uint64, amountAtomic int64) {
	l.Logger.InfoContext(ctx,
		"Refund Processed",
		slog.Uint64("token_id", tokenID),
		slog.Uint64("event_id", eventID),
		slog.Int64("amount_atomic", amountAtomic),
	)
}

// LogWithdrawal logs an organizer payout
func (l *Logger) LogWithdrawal(ctx context.Context, eventID uint64, amountAtomic int64) {
	l.Logger.InfoContext(ctx,
		"Revenue Withdrawn",
		slog.Uint64("event_id", eventID),
		slog.Int64("amount_atomic", amountAtomic),
	)
}

// LogAuthSuccess logs successful authentication
func (l *Logger) LogAuthSuccess(ctx context.Context, userID, method string) {
	l.Logger.InfoContext(ctx,
		"Authentication Success",
		slog.String("user_id", userID),
		slog.String("method", method),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
