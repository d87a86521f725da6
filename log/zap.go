/*
 * MIT License
 *
 * Copyright (c) 2022-2025 The Orbit Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package log

import (
	"go.uber.org/zap"
)

// zapLogger adapts a *zap.SugaredLogger to the Logger interface.
type zapLogger struct {
	sugared *zap.SugaredLogger
}

var _ Logger = (*zapLogger)(nil)

// New creates a production-configured Logger backed by zap.
func New() Logger {
	cfg := zap.NewProductionConfig()
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// fall back to a development logger rather than failing construction
		zl = zap.NewExample()
	}
	return &zapLogger{sugared: zl.Sugar()}
}

// NewDevelopment creates a human-readable Logger suited for local runs and tests.
func NewDevelopment() Logger {
	zl, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		zl = zap.NewExample()
	}
	return &zapLogger{sugared: zl.Sugar()}
}

func (l *zapLogger) Debug(args ...any)                 { l.sugared.Debug(args...) }
func (l *zapLogger) Debugf(template string, args ...any) { l.sugared.Debugf(template, args...) }
func (l *zapLogger) Info(args ...any)                  { l.sugared.Info(args...) }
func (l *zapLogger) Infof(template string, args ...any)  { l.sugared.Infof(template, args...) }
func (l *zapLogger) Warn(args ...any)                  { l.sugared.Warn(args...) }
func (l *zapLogger) Warnf(template string, args ...any)  { l.sugared.Warnf(template, args...) }
func (l *zapLogger) Error(args ...any)                 { l.sugared.Error(args...) }
func (l *zapLogger) Errorf(template string, args ...any) { l.sugared.Errorf(template, args...) }
