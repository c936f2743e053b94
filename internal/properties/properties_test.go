/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package properties

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writePropertiesFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func offPlatform(t *testing.T) {
	t.Helper()
	t.Setenv("VCAP_APPLICATION", "")
}

func Test_LoadAppliesDefaults(t *testing.T) {
	offPlatform(t)

	props, err := Load(writePropertiesFile(t, "application.yaml", "datasource:\n  url: sqlite://:memory:\n"))
	assert.NoError(t, err)
	assert.Equal(t, "127.0.0.1:3000", props.Management().ListenAddress)
	assert.Equal(t, 10, props.Datasource().Pool.MaxOpen)
	assert.Equal(t, 5, props.Datasource().Pool.MaxIdle)
}

func Test_LoadReturnsError_ExplicitFileMissing(t *testing.T) {
	offPlatform(t)

	_, err := Load("/path/not/found/application.yaml")
	assert.ErrorContains(t, err, "failed to load properties file")
}

func Test_LoadReturnsError_MalformedFile(t *testing.T) {
	offPlatform(t)

	_, err := Load(writePropertiesFile(t, "application.yaml", "\t- not yaml"))
	assert.ErrorContains(t, err, "failed to load properties file")
}

func Test_LoadFileOverridesDefaults(t *testing.T) {
	offPlatform(t)

	props, err := Load(writePropertiesFile(t, "application.yaml",
		"datasource:\n  pool:\n    max-open: 25\nmanagement:\n  listen-address: 0.0.0.0:8080\n"))
	assert.NoError(t, err)
	assert.Equal(t, 25, props.Datasource().Pool.MaxOpen)
	assert.Equal(t, "0.0.0.0:8080", props.Management().ListenAddress)
}

func Test_LoadProfileOverlayWins(t *testing.T) {
	offPlatform(t)
	t.Setenv("TETHER_PROFILES_ACTIVE", "staging")

	base := writePropertiesFile(t, "application.yaml",
		"datasource:\n  url: sqlite://tether.db\nprofiles:\n  active: staging\n")
	overlay := filepath.Join(filepath.Dir(base), "application-staging.yaml")
	err := os.WriteFile(overlay, []byte("datasource:\n  url: postgres://db.staging.internal/tether\n"), 0644)
	assert.NoError(t, err)

	props, err := Load(base)
	assert.NoError(t, err)
	assert.Equal(t, "postgres://db.staging.internal/tether", props.Datasource().URL)
	assert.Equal(t, []string{"staging"}, props.ActiveProfiles())
}

func Test_LoadReturnsError_MissingProfileOverlay(t *testing.T) {
	offPlatform(t)
	t.Setenv("TETHER_PROFILES_ACTIVE", "staging")

	base := writePropertiesFile(t, "application.yaml", "datasource:\n  url: sqlite://tether.db\n")

	_, err := Load(base)
	assert.ErrorContains(t, err, "failed to load profile overlay")
}

func Test_LoadEnvironmentWinsOverFile(t *testing.T) {
	offPlatform(t)
	t.Setenv("TETHER_DATASOURCE_URL", "postgres://db.internal/tether")
	t.Setenv("TETHER_DATASOURCE_SERVICE__NAME", "ledger-db")

	props, err := Load(writePropertiesFile(t, "application.yaml", "datasource:\n  url: sqlite://tether.db\n"))
	assert.NoError(t, err)
	assert.Equal(t, "postgres://db.internal/tether", props.Datasource().URL)
	assert.Equal(t, "ledger-db", props.Datasource().ServiceName)
}

func Test_LoadActivatesCloudProfile_OnPlatform(t *testing.T) {
	t.Setenv("VCAP_APPLICATION", `{"application_name": "ledger"}`)

	props, err := Load(writePropertiesFile(t, "application.yaml", ""))
	assert.NoError(t, err)
	assert.True(t, props.HasProfile(CloudProfile))
}

func Test_LoadReturnsError_CloudProfileDeclared(t *testing.T) {
	offPlatform(t)

	_, err := Load(writePropertiesFile(t, "application.yaml", "profiles:\n  active: cloud\n"))
	assert.ErrorContains(t, err, "reserved and activated automatically")
}

func Test_LoadReturnsError_InvalidDriver(t *testing.T) {
	offPlatform(t)

	_, err := Load(writePropertiesFile(t, "application.yaml", "datasource:\n  driver: oracle\n"))
	assert.ErrorContains(t, err, "invalid properties")
}

func Test_AllRedactsSecrets(t *testing.T) {
	offPlatform(t)

	props, err := Load(writePropertiesFile(t, "application.yaml",
		"datasource:\n  username: tether\n  password: hunter2\nmanagement:\n  secret: sesame\n"))
	assert.NoError(t, err)

	all := props.All()
	assert.Equal(t, "REDACTED", all["datasource.password"])
	assert.Equal(t, "REDACTED", all["management.secret"])
	assert.Equal(t, "tether", all["datasource.username"])
}
