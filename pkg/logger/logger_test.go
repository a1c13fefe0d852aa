package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pixivsave/pkg/config"
)

func resetGlobalLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
}

func TestNew(t *testing.T) {
	resetGlobalLevel(t)

	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "valid config with info level",
			cfg:     &config.LoggingConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "valid config with debug level",
			cfg:     &config.LoggingConfig{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "invalid"},
			wantErr: true,
		},
		{
			name:    "config with file output",
			cfg:     &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "pixivsave.log")},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLoggerWritesFields(t *testing.T) {
	resetGlobalLevel(t)
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.WithField("url", "https://www.pixiv.net/artworks/1").
		WithFields(map[string]interface{}{"page": 2, "headless": true}).
		Info("navigating")

	out := buf.String()
	assert.Contains(t, out, `"message":"navigating"`)
	assert.Contains(t, out, `"url":"https://www.pixiv.net/artworks/1"`)
	assert.Contains(t, out, `"page":2`)
	assert.Contains(t, out, `"headless":true`)
	assert.Contains(t, out, `"app":"pixivsave"`)
}

func TestWithFieldsDoesNotLeakIntoParent(t *testing.T) {
	resetGlobalLevel(t)
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, zerolog.DebugLevel)

	_ = parent.WithField("child", "yes")
	parent.Info("parent only")

	assert.NotContains(t, buf.String(), "child")
}

func TestWithError(t *testing.T) {
	resetGlobalLevel(t)
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.WithError(errors.New("boom")).Error("write failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)

	buf.Reset()
	assert.Equal(t, l, l.WithError(nil))
}

func TestWithFieldsTypes(t *testing.T) {
	resetGlobalLevel(t)
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.InfoWithFields("typed", map[string]interface{}{
		"duration": 1500 * time.Millisecond,
		"names":    []string{"a", "b"},
		"ratio":    0.5,
	})

	out := buf.String()
	assert.Contains(t, out, `"duration":1500`)
	assert.Contains(t, out, `"names":["a","b"]`)
	assert.Contains(t, out, `"ratio":0.5`)
}

func TestLevelFiltering(t *testing.T) {
	resetGlobalLevel(t)
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("shown warn")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warn")
}

func TestHelpersUseGlobalLogger(t *testing.T) {
	tl := NewTestLogger()
	SetLogger(tl)
	t.Cleanup(func() { SetLogger(nil) })

	LogImageSaved("1_p0_master1200.jpg", "https://www.pixiv.net/artworks/1", 42, nil)
	LogImageSaved("2_p0_master1200.jpg", "https://www.pixiv.net/artworks/2", 0, errors.New("disk full"))
	LogPageScan(1, 4, 48, 48)
	LogComponentStart("write-pool", map[string]interface{}{"workers": 2})
	LogComponentStop("write-pool", "drained")
	LogMetrics("run", map[string]interface{}{"written": 3})

	assert.True(t, tl.HasMessage("Image saved"))
	assert.True(t, tl.HasError())

	failed := tl.GetMessagesByLevel("ERROR")
	require.Len(t, failed, 1)
	assert.Equal(t, "Image write failed", failed[0].Message)
	assert.EqualError(t, failed[0].Error, "disk full")
	assert.Equal(t, "2_p0_master1200.jpg", failed[0].Fields["file"])

	var scan LogMessage
	for _, m := range tl.GetMessages() {
		if m.Message == "Listing page scanned" {
			scan = m
		}
	}
	assert.Equal(t, "25.0%", scan.Fields["percentage"])

	assert.True(t, tl.HasMessage("Component stopped"))
}

func TestLogNavigation(t *testing.T) {
	tl := NewTestLogger()
	SetLogger(tl)
	t.Cleanup(func() { SetLogger(nil) })

	LogNavigation("https://www.pixiv.net/artworks/1", time.Second, nil)
	LogNavigation("https://www.pixiv.net/artworks/2", time.Second, errors.New("timeout"))

	assert.Len(t, tl.GetMessagesByLevel("DEBUG"), 1)
	assert.True(t, tl.HasMessage("Navigation failed"))
}

func TestTestLoggerScopedFields(t *testing.T) {
	tl := NewTestLogger()
	scoped := tl.WithField("a", 1)
	scoped.WithField("b", 2).Warn("scoped")
	scoped.Info("parent")

	msgs := tl.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, msgs[0].Fields)
	assert.Equal(t, map[string]interface{}{"a": 1}, msgs[1].Fields)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.WithField("k", "v").WithError(errors.New("x")).Error("ignored")
		l.WarnWithFields("ignored", map[string]interface{}{"k": "v"})
	})
}

func TestInitializeDetached(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	require.NoError(t, InitializeDetached(&config.LoggingConfig{Level: "info"}))
	GetLogger().Info("discarded")

	logFile := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, InitializeDetached(&config.LoggingConfig{Level: "info", File: logFile}))
	GetLogger().Info("kept in file")
	assert.FileExists(t, logFile)

	assert.Error(t, InitializeDetached(&config.LoggingConfig{Level: "loud"}))
}
