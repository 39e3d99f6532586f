package log

import (
	"io"

	gethlog "github.com/ethereum/go-ethereum/log"
)

type Logger = gethlog.Logger

// New returns a logger carrying ctx as key/value context on every record.
func New(ctx ...interface{}) Logger {
	return gethlog.New(ctx...)
}

func Root() Logger {
	return gethlog.Root()
}

// Setup installs a terminal handler as the root logger. Verbosity follows the
// classic scale: 0 crit, 1 error, 2 warn, 3 info, 4 debug, 5 trace.
func Setup(w io.Writer, verbosity int, useColor bool) {
	handler := gethlog.NewTerminalHandlerWithLevel(w, gethlog.FromLegacyLevel(verbosity), useColor)
	gethlog.SetDefault(gethlog.NewLogger(handler))
}

// Discard silences the root logger.
func Discard() {
	gethlog.SetDefault(gethlog.NewLogger(gethlog.DiscardHandler()))
}

func Trace(msg string, ctx ...interface{}) {
	gethlog.Root().Trace(msg, ctx...)
}

func Debug(msg string, ctx ...interface{}) {
	gethlog.Root().Debug(msg, ctx...)
}

func Info(msg string, ctx ...interface{}) {
	gethlog.Root().Info(msg, ctx...)
}

func Warn(msg string, ctx ...interface{}) {
	gethlog.Root().Warn(msg, ctx...)
}

func Error(msg string, ctx ...interface{}) {
	gethlog.Root().Error(msg, ctx...)
}

func Crit(msg string, ctx ...interface{}) {
	gethlog.Root().Crit(msg, ctx...)
}
