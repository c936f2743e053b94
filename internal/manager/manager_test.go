/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package manager

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tschaefer/tether/internal/datasource"
)

func createPropertiesFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "application.yaml")
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	return path
}

func Test_NewReturnsManager(t *testing.T) {
	t.Setenv("VCAP_APPLICATION", "")
	propertiesFile := createPropertiesFile(t, `
datasource:
  url: sqlite://:memory:
management:
  secret: C7LVMO6YY0ZfZvlEayQJR0zOE7JF8g+nrYgrcvetIbU=
`)

	m, err := New(propertiesFile)
	assert.NoError(t, err)
	assert.NotNil(t, m)
	assert.Equal(t, datasource.OriginProperties, m.Source().Origin)
}

func Test_NewReturnsError_MissingPropertiesFile(t *testing.T) {
	t.Setenv("VCAP_APPLICATION", "")

	_, err := New("/path/not/found/application.yaml")
	assert.Error(t, err)
}

func Test_NewReturnsError_InvalidDatasourceURL(t *testing.T) {
	t.Setenv("VCAP_APPLICATION", "")
	propertiesFile := createPropertiesFile(t, "datasource:\n  url: mysql://db.internal/tether\n")

	m, err := New(propertiesFile)
	assert.Nil(t, m)
	assert.Error(t, err)
}

func Test_NewFallsBackToEmbedded(t *testing.T) {
	t.Setenv("VCAP_APPLICATION", "")
	propertiesFile := createPropertiesFile(t, "")

	m, err := New(propertiesFile)
	assert.NoError(t, err)
	assert.Equal(t, datasource.OriginEmbedded, m.Source().Origin)
}

func Test_NewUsesBinding_OnPlatform(t *testing.T) {
	t.Setenv("VCAP_APPLICATION", `{"application_name": "ledger", "instance_index": 2}`)
	t.Setenv("VCAP_SERVICES", `{
		"sqlite": [
			{
				"name": "ledger-db",
				"label": "sqlite",
				"tags": ["relational"],
				"credentials": { "uri": "sqlite://:memory:" }
			}
		]
	}`)
	propertiesFile := createPropertiesFile(t, "")

	m, err := New(propertiesFile)
	assert.NoError(t, err)
	assert.Equal(t, datasource.OriginBinding, m.Source().Origin)
	assert.Equal(t, "ledger-db", m.Source().Service)
}

func Test_RunSucceeds(t *testing.T) {
	t.Setenv("VCAP_APPLICATION", "")
	propertiesFile := createPropertiesFile(t, `
datasource:
  url: sqlite://:memory:
management:
  secret: C7LVMO6YY0ZfZvlEayQJR0zOE7JF8g+nrYgrcvetIbU=
`)

	m, err := New(propertiesFile)
	assert.NoError(t, err)
	assert.NotNil(t, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err, "allocate management port")
	listenAddr := listener.Addr().String()
	_ = listener.Close()

	go m.Run(ctx, listenAddr)

	var conn net.Conn
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", listenAddr)
		if conn != nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	assert.NoError(t, err)
	assert.NotNil(t, conn)
	_ = conn.Close()

	cancel()
	time.Sleep(100 * time.Millisecond)
}
