package log

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const DefaultThrottlingWindow = time.Minute

type ThrottlingLogger interface {
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
}

// NewThrottlingLogger drops records identical (message and context) to one
// already written within the throttling window.
func NewThrottlingLogger(baseLogger Logger) ThrottlingLogger {
	return NewThrottlingLoggerWithWindow(baseLogger, DefaultThrottlingWindow)
}

func NewThrottlingLoggerWithWindow(baseLogger Logger, window time.Duration) ThrottlingLogger {
	return &throttlingLogger{
		logger: baseLogger,
		cache:  cache.New(window, window*5),
	}
}

type throttlingLogger struct {
	logger Logger
	cache  *cache.Cache
}

func (t *throttlingLogger) Trace(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Trace, ctx...)
}

func (t *throttlingLogger) Debug(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Debug, ctx...)
}

func (t *throttlingLogger) Info(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Info, ctx...)
}

func (t *throttlingLogger) Warn(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Warn, ctx...)
}

func (t *throttlingLogger) Error(msg string, ctx ...interface{}) {
	t.logIfNeeded(msg, t.logger.Error, ctx...)
}

func (t *throttlingLogger) logIfNeeded(msg string, log func(msg string, ctx ...interface{}), ctx ...interface{}) {
	if err := t.cache.Add(throttlingKey(msg, ctx), struct{}{}, cache.DefaultExpiration); err == nil {
		log(msg, ctx...)
	}
}

func throttlingKey(msg string, ctx []interface{}) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for _, c := range ctx {
		sb.WriteByte('|')
		sb.WriteString(fmt.Sprint(c))
	}
	return sb.String()
}
