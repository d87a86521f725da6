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

package discovery

import (
	"errors"
	"fmt"
	"strconv"
)

// Config carries provider-specific settings as a loosely typed bag, since
// each Provider implementation needs a different shape of configuration.
type Config map[string]any

// NewConfig creates an empty Config.
func NewConfig() Config {
	return Config{}
}

// GetString returns the string value for key.
func (c Config) GetString(key string) (string, error) {
	val, ok := c[key]
	if !ok {
		return "", fmt.Errorf("key=%s not found", key)
	}
	s, ok := val.(string)
	if !ok {
		return "", errors.New("the key value is not a string")
	}
	return s, nil
}

// GetInt returns the int value for key, parsing it from a string if needed.
func (c Config) GetInt(key string) (int, error) {
	val, ok := c[key]
	if !ok {
		return 0, fmt.Errorf("key=%s not found", key)
	}
	switch v := val.(type) {
	case int:
		return v, nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, errors.New("the key value is not an int")
	}
}

// GetBool returns the bool value for key, parsing it from a string if needed.
func (c Config) GetBool(key string) (bool, error) {
	val, ok := c[key]
	if !ok {
		return false, fmt.Errorf("key=%s not found", key)
	}
	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, errors.New("the key value is not a bool")
	}
}

// GetStringSlice returns the []string value for key.
func (c Config) GetStringSlice(key string) ([]string, error) {
	val, ok := c[key]
	if !ok {
		return nil, fmt.Errorf("key=%s not found", key)
	}
	s, ok := val.([]string)
	if !ok {
		return nil, errors.New("the key value is not a []string")
	}
	return s, nil
}
