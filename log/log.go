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

// Package log defines the logging facade used throughout the runtime. The
// default implementation is backed by zap; a discard implementation is
// available for tests and benchmarks that do not want log noise.
package log

// Logger represents an active logging object.
type Logger interface {
	// Debug logs at debug level.
	Debug(...any)
	// Debugf logs at debug level with formatting.
	Debugf(string, ...any)
	// Info logs at info level.
	Info(...any)
	// Infof logs at info level with formatting.
	Infof(string, ...any)
	// Warn logs at warn level.
	Warn(...any)
	// Warnf logs at warn level with formatting.
	Warnf(string, ...any)
	// Error logs at error level.
	Error(...any)
	// Errorf logs at error level with formatting.
	Errorf(string, ...any)
}
