// Package logger provides structured logging for pixivsave.
//
// It wraps zerolog behind a small Logger interface with field support,
// a colored console writer on stderr and optional file output.
//
//	err := logger.Initialize(&cfg.Logging)
//	logger.WithField("url", profileURL).Info("Starting run")
//
// Tests can swap the global logger for a TestLogger and assert on the
// captured messages:
//
//	tl := logger.NewTestLogger()
//	logger.SetLogger(tl)
//	...
//	assert.True(t, tl.HasMessage("Image saved"))
package logger
