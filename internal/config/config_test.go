package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token-123")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REPORT_TIME", "")
	t.Setenv("WORKDAY_END", "")
	t.Setenv("KEYWORDS_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "token-123", cfg.TelegramToken)
	assert.Equal(t, "taskboard.db", cfg.DatabaseURL)
	assert.Equal(t, "09:00", cfg.ReportTime)
	assert.Equal(t, "18:30", cfg.WorkdayEnd)
	assert.Empty(t, cfg.KeywordsFile)
}

func TestLoad_RequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("REPORT_TIME", "")
	t.Setenv("WORKDAY_END", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadClockTimes(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token-123")
	t.Setenv("WORKDAY_END", "")

	for _, bad := range []string{"9", "25:00", "09:75", "morning", "9:3:0"} {
		t.Setenv("REPORT_TIME", bad)
		_, err := Load()
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestLoad_AcceptsCustomTimes(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token-123")
	t.Setenv("REPORT_TIME", "08:15")
	t.Setenv("WORKDAY_END", "17:00")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "08:15", cfg.ReportTime)
	assert.Equal(t, "17:00", cfg.WorkdayEnd)
}
