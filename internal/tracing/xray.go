// Package tracing provides AWS X-Ray distributed tracing integration.
package tracing

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
)

// Config contains X-Ray configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	DaemonAddr     string
}

var enabled atomic.Bool

// Logger adapter for X-Ray SDK.
type xrayLoggerAdapter struct {
	logger *logrus.Entry
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	switch level {
	case xraylog.LogLevelDebug:
		l.logger.Debug(msg.String())
	case xraylog.LogLevelInfo:
		l.logger.Info(msg.String())
	case xraylog.LogLevelWarn:
		l.logger.Warn(msg.String())
	case xraylog.LogLevelError:
		l.logger.Error(msg.String())
	}
}

// Initialize initializes AWS X-Ray with the given configuration.
// When tracing is disabled every helper in this package is a no-op.
func Initialize(cfg Config, logger *logrus.Logger) error {
	if !cfg.Enabled {
		enabled.Store(false)
		return nil
	}
	if logger == nil {
		logger = logrus.New()
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger.WithField("component", "xray")})

	if err := xray.Configure(xray.Config{
		DaemonAddr:     cfg.DaemonAddr,
		ServiceVersion: cfg.ServiceVersion,
	}); err != nil {
		return fmt.Errorf("failed to configure X-Ray: %w", err)
	}
	enabled.Store(true)

	logger.WithFields(logrus.Fields{
		"daemon_addr":  cfg.DaemonAddr,
		"service_name": cfg.ServiceName,
	}).Info("AWS X-Ray initialized")

	return nil
}

// Enabled reports whether Initialize turned tracing on.
func Enabled() bool {
	return enabled.Load()
}

// StartSegment starts a new X-Ray segment. The returned func closes it.
func StartSegment(ctx context.Context, segmentName string) (context.Context, func(error)) {
	if !Enabled() {
		return ctx, func(error) {}
	}
	ctx, seg := xray.BeginSegment(ctx, segmentName)
	return ctx, seg.Close
}

// StartSubsegment starts a subsegment of the segment carried by ctx.
// Without a parent segment nothing is recorded.
func StartSubsegment(ctx context.Context, subsegmentName string) (context.Context, func(error)) {
	if !Enabled() || xray.GetSegment(ctx) == nil {
		return ctx, func(error) {}
	}
	ctx, seg := xray.BeginSubsegment(ctx, subsegmentName)
	return ctx, seg.Close
}

// AddAnnotation adds an annotation to the current segment.
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if !Enabled() {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}

// AddError adds an error to the current segment.
func AddError(ctx context.Context, err error) {
	if !Enabled() || err == nil {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddError(err)
	}
}
