package log

import (
	"bytes"
	"strings"
	"testing"

	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
)

func TestThrottlingLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	base := gethlog.NewLogger(gethlog.NewTerminalHandlerWithLevel(buf, gethlog.LevelTrace, false))
	logger := NewThrottlingLogger(base)

	logger.Warn("tx failed", "err", "tier not reached")
	logger.Warn("tx failed", "err", "tier not reached")
	logger.Info("another message")

	require.Equal(t, 1, strings.Count(buf.String(), "tx failed"))
	require.Equal(t, 1, strings.Count(buf.String(), "another message"))
}
