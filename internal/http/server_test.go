/*
Copyright (c) Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tschaefer/tether/internal/controller"
	"github.com/tschaefer/tether/internal/database"
	"github.com/tschaefer/tether/internal/datasource"
	"github.com/tschaefer/tether/internal/model"
	"github.com/tschaefer/tether/internal/properties"
)

func testProperties() *properties.Properties {
	data := &properties.Data{}
	data.Management.ListenAddress = "127.0.0.1:3000"
	data.Management.Secret = "gpFb8WTh5iELimbX3YfuvRYRh2Z2PHa8Lmoog0a25QQ="
	data.Datasource.Password = "hunter2"

	return properties.NewFromData(data, []string{"cloud"})
}

func newTestServer(t *testing.T) (*Server, *controller.Controller, *model.Model) {
	t.Helper()

	source := &datasource.Source{
		Driver: "sqlite",
		URL:    "sqlite://:memory:",
		Origin: datasource.OriginEmbedded,
	}
	db, err := database.New(source)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatal(err)
	}

	m := model.New(db.Connection())
	ctrl := controller.New(m, testProperties())

	info := Info{
		ApplicationName:  "ledger",
		ResourceId:       "c4866b7e-75a4-4c1c-9822-6e55f5f15a4f",
		InstanceIndex:    0,
		Platform:         true,
		Profiles:         []string{"cloud"},
		DatasourceOrigin: "embedded",
	}

	return NewServer("127.0.0.1:0", ctrl, db, info), ctrl, m
}

func TestNewServerCreatesServerWithRoutes(t *testing.T) {
	server, _, _ := newTestServer(t)

	assert.NotNil(t, server)
	assert.NotNil(t, server.server)
	assert.NotNil(t, server.controller)
	assert.NotNil(t, server.database)
	assert.Equal(t, 10*time.Second, server.server.ReadTimeout)
	assert.Equal(t, 10*time.Second, server.server.WriteTimeout)
	assert.Equal(t, 60*time.Second, server.server.IdleTimeout)
}

func TestServerStartAndStop(t *testing.T) {
	server, _, _ := newTestServer(t)

	err := server.Start()
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = server.Stop(ctx)
	assert.NoError(t, err)
}

func TestHealthRouteNeedsNoToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInfoRouteRequiresToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	rec := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnvRouteRequiresToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/env", nil)
	rec := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
