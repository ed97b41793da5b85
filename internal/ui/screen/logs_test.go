package screen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/logger"
)

func TestLogsScreenFiltersAndPolls(t *testing.T) {
	buf, err := logger.NewLogBuffer(100, "", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, buf.Add("info", "Dashboard loaded", nil))
	require.NoError(t, buf.Add("error", "Error fetching live data", map[string]interface{}{"address": "7xKX"}))

	s := NewLogsScreen(buf)
	s.SetSize(160, 30)
	s.Init()
	assert.Equal(t, 2, s.EntryCount())
	assert.Contains(t, s.View(), "address=7xKX")

	press(s, "1")
	assert.Equal(t, 1, s.EntryCount())
	press(s, "4")
	assert.Equal(t, 2, s.EntryCount())

	require.NoError(t, buf.Add("warn", "Live source unavailable", nil))
	_, cmd := s.Update(RefreshLogsMsg{Timestamp: time.Now()})
	assert.NotNil(t, cmd)
	assert.Equal(t, 3, s.EntryCount())

	s.Close()
	_, cmd = s.Update(RefreshLogsMsg{Timestamp: time.Now()})
	assert.Nil(t, cmd)
}
