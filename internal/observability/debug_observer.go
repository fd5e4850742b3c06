// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugObserver traces the pipeline step by step as indented console lines.
type DebugObserver struct {
	*StandardObserver
	console *zap.SugaredLogger
	indent  int
}

// NewDebugObserver creates a debug observer. Timing records and the step
// trace both go to writer.
func NewDebugObserver(writer io.Writer) *DebugObserver {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(writer),
		zapcore.DebugLevel,
	)
	d := &DebugObserver{
		StandardObserver: NewStandardObserver(ObservabilityDebug, writer),
		console:          zap.New(core).Sugar(),
	}
	d.StandardObserver.DebugObserver = d
	return d
}

// StartStep begins a processing step and returns the function that ends it.
// Steps nest.
func (d *DebugObserver) StartStep(component, step, target string) func(success bool, details string) {
	start := time.Now()
	d.console.Infof("%s🔄 %s: %s (%s)", d.prefix(), component, step, target)
	d.indent++

	return func(success bool, details string) {
		d.indent--
		elapsed := time.Since(start).Milliseconds()
		if success {
			d.console.Infof("%s✅ %s: %s completed (%dms) %s", d.prefix(), component, step, elapsed, details)
		} else {
			d.console.Infof("%s❌ %s: %s failed (%dms) %s", d.prefix(), component, step, elapsed, details)
		}
	}
}

// LogDetail logs a detail within the current step
func (d *DebugObserver) LogDetail(component, detail string) {
	d.console.Infof("%s   → %s: %s", d.prefix(), component, detail)
}

// LogMetric logs a metric value
func (d *DebugObserver) LogMetric(component, metric string, value interface{}) {
	d.console.Infof("%s   📊 %s: %s = %v", d.prefix(), component, metric, value)
}

func (d *DebugObserver) prefix() string {
	return strings.Repeat("  ", d.indent)
}
