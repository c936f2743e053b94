/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package properties

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tschaefer/tether/internal/cloud"
)

const envPrefix = "TETHER_"

// CloudProfile is activated implicitly when the process runs on the
// platform. Declaring it in profiles.active is an error.
const CloudProfile = "cloud"

type Pool struct {
	MaxOpen     int `koanf:"max-open" validate:"gte=0"`
	MaxIdle     int `koanf:"max-idle" validate:"gte=0"`
	MaxLifetime int `koanf:"max-lifetime" validate:"gte=0"`
}

type Datasource struct {
	URL         string `koanf:"url"`
	Driver      string `koanf:"driver" validate:"omitempty,oneof=sqlite postgres"`
	Username    string `koanf:"username"`
	Password    string `koanf:"password"`
	ServiceName string `koanf:"service-name"`
	Pool        Pool   `koanf:"pool"`
}

type Management struct {
	ListenAddress string `koanf:"listen-address" validate:"required,hostname_port"`
	Secret        string `koanf:"secret"`
	Profiler      string `koanf:"profiler"`
}

type Data struct {
	Datasource Datasource `koanf:"datasource"`
	Management Management `koanf:"management"`
	Profiles   struct {
		Active string `koanf:"active"`
	} `koanf:"profiles"`
}

type Properties struct {
	koanf    *koanf.Koanf
	data     *Data
	profiles []string
}

var defaults = map[string]any{
	"datasource.pool.max-open":     10,
	"datasource.pool.max-idle":     5,
	"datasource.pool.max-lifetime": 1800,
	"management.listen-address":    "127.0.0.1:3000",
}

// Load resolves the property layers, later layers win: defaults,
// the base properties file, one overlay per active profile and
// finally TETHER_ prefixed environment variables. An empty file
// argument means application.yaml in the working directory, which
// may be absent.
func Load(propertiesFile string) (*Properties, error) {
	slog.Debug("Loading properties", "file", propertiesFile)

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load property defaults: %v", err)
	}

	explicit := propertiesFile != ""
	if !explicit {
		propertiesFile = "application.yaml"
	}

	if err := k.Load(file.Provider(propertiesFile), yaml.Parser()); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load properties file %s: %v", propertiesFile, err)
		}
	}

	profiles, err := activeProfiles(k)
	if err != nil {
		return nil, err
	}

	for _, profile := range profiles {
		overlay := overlayFile(propertiesFile, profile)
		if err := k.Load(file.Provider(overlay), yaml.Parser()); err != nil {
			// The implicit cloud profile needs no overlay file.
			if profile == CloudProfile && os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to load profile overlay %s: %v", overlay, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment properties: %v", err)
	}

	var data Data
	if err := k.Unmarshal("", &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal properties: %v", err)
	}

	if err := validator.New().Struct(&data); err != nil {
		return nil, fmt.Errorf("invalid properties: %v", err)
	}

	p := &Properties{
		koanf:    k,
		data:     &data,
		profiles: profiles,
	}
	slog.Debug("Properties loaded", "properties", p.All(), "profiles", profiles)

	return p, nil
}

// NewFromData builds properties from already resolved data, used by
// tests and callers that bypass the layered lookup.
func NewFromData(data *Data, profiles []string) *Properties {
	slog.Debug("Creating properties from data", "profiles", profiles)

	k := koanf.New(".")
	flat := map[string]any{
		"datasource.url":               data.Datasource.URL,
		"datasource.driver":            data.Datasource.Driver,
		"datasource.username":          data.Datasource.Username,
		"datasource.password":          data.Datasource.Password,
		"datasource.service-name":      data.Datasource.ServiceName,
		"datasource.pool.max-open":     data.Datasource.Pool.MaxOpen,
		"datasource.pool.max-idle":     data.Datasource.Pool.MaxIdle,
		"datasource.pool.max-lifetime": data.Datasource.Pool.MaxLifetime,
		"management.listen-address":    data.Management.ListenAddress,
		"management.secret":            data.Management.Secret,
		"management.profiler":          data.Management.Profiler,
		"profiles.active":              data.Profiles.Active,
	}
	_ = k.Load(confmap.Provider(flat, "."), nil)

	return &Properties{
		koanf:    k,
		data:     data,
		profiles: profiles,
	}
}

func (p *Properties) Datasource() Datasource {
	return p.data.Datasource
}

func (p *Properties) Management() Management {
	return p.data.Management
}

func (p *Properties) ActiveProfiles() []string {
	return p.profiles
}

func (p *Properties) HasProfile(profile string) bool {
	return slices.Contains(p.profiles, profile)
}

// All returns the merged property set with secret values redacted,
// suitable for logging and the env endpoint.
func (p *Properties) All() map[string]string {
	secrets := []string{"password", "secret"}

	result := make(map[string]string)
	for key, value := range p.koanf.All() {
		redacted := false
		for _, secret := range secrets {
			if strings.Contains(key, secret) {
				redacted = true
				break
			}
		}

		if redacted && fmt.Sprintf("%v", value) != "" {
			result[key] = "REDACTED"
		} else {
			result[key] = fmt.Sprintf("%v", value)
		}
	}

	return result
}

func activeProfiles(k *koanf.Koanf) ([]string, error) {
	declared := k.String("profiles.active")
	if value, ok := os.LookupEnv(envPrefix + "PROFILES_ACTIVE"); ok {
		declared = value
	}

	var profiles []string
	for _, profile := range strings.Split(declared, ",") {
		profile = strings.TrimSpace(profile)
		if profile == "" {
			continue
		}
		if profile == CloudProfile {
			return nil, fmt.Errorf("profile %q is reserved and activated automatically", CloudProfile)
		}
		profiles = append(profiles, profile)
	}

	if cloud.Detected() {
		profiles = append(profiles, CloudProfile)
	}

	return profiles, nil
}

func overlayFile(base string, profile string) string {
	ext := ".yaml"
	if idx := strings.LastIndex(base, "."); idx != -1 {
		ext = base[idx:]
		base = base[:idx]
	}

	return base + "-" + profile + ext
}

// envKey maps TETHER_ environment variables to property keys. A
// single underscore separates key segments, a double underscore
// stands for a literal hyphen: TETHER_DATASOURCE_SERVICE__NAME maps
// to datasource.service-name.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	s = strings.ReplaceAll(s, "__", "-")

	return strings.ReplaceAll(s, "_", ".")
}
