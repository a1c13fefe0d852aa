package logger

import (
	"fmt"
	"time"
)

// LogNavigation logs the outcome of a single page navigation
func LogNavigation(url string, duration time.Duration, err error) {
	fields := map[string]interface{}{
		"url":      url,
		"duration": duration,
	}

	if err != nil {
		GetLogger().WithFields(fields).WithError(err).Error("Navigation failed")
		return
	}
	GetLogger().DebugWithFields("Navigation completed", fields)
}

// LogImageSaved logs a captured image write
func LogImageSaved(fileName, artwork string, size int, err error) {
	log := GetLogger().WithFields(map[string]interface{}{
		"file":    fileName,
		"artwork": artwork,
		"bytes":   size,
	})

	if err != nil {
		log.WithError(err).Error("Image write failed")
		return
	}
	log.Info("Image saved")
}

// LogPageScan logs listing page progress
func LogPageScan(page, totalPages, found, accumulated int) {
	percentage := 0.0
	if totalPages > 0 {
		percentage = float64(page) / float64(totalPages) * 100
	}

	GetLogger().WithFields(map[string]interface{}{
		"page":        page,
		"total_pages": totalPages,
		"found":       found,
		"accumulated": accumulated,
		"percentage":  fmt.Sprintf("%.1f%%", percentage),
	}).Info("Listing page scanned")
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	log := GetLogger().WithField("component", component)

	if len(config) > 0 {
		log = log.WithFields(config)
	}

	log.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// LogMetrics logs performance metrics
func LogMetrics(operation string, metrics map[string]interface{}) {
	fields := map[string]interface{}{
		"operation": operation,
		"type":      "metrics",
	}

	for k, v := range metrics {
		fields[k] = v
	}

	GetLogger().InfoWithFields("Performance metrics", fields)
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
