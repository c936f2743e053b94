/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cloud

import (
	"fmt"
	"strconv"
)

// Credentials is the free-form credentials block of a binding. The
// platform gives no schema guarantees, brokers emit ports as numbers
// or strings and name the connection URI either "uri" or "jdbcUrl".
type Credentials map[string]any

func (c Credentials) String(key string) (string, bool) {
	value, ok := c[key]
	if !ok {
		return "", false
	}

	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	}

	return fmt.Sprintf("%v", value), true
}

func (c Credentials) URI() (string, bool) {
	for _, key := range []string{"uri", "url", "jdbcUrl"} {
		if value, ok := c.String(key); ok && value != "" {
			return value, true
		}
	}

	return "", false
}

func (c Credentials) Username() (string, bool) {
	for _, key := range []string{"username", "user"} {
		if value, ok := c.String(key); ok && value != "" {
			return value, true
		}
	}

	return "", false
}

func (c Credentials) Password() (string, bool) {
	return c.String("password")
}

func (c Credentials) Hostname() (string, bool) {
	for _, key := range []string{"hostname", "host"} {
		if value, ok := c.String(key); ok && value != "" {
			return value, true
		}
	}

	return "", false
}

func (c Credentials) Port() (int, bool) {
	value, ok := c.String("port")
	if !ok {
		return 0, false
	}

	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}

	return port, true
}
