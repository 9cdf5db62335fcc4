// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads mcpdoctor settings from the XDG config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when the config file is absent or partial.
const (
	DefaultTimeoutSeconds    = 30
	DefaultOAuthRedirectPort = 8085
	DefaultOAuthWaitMinutes  = 5
	DefaultHistoryFile       = "history.db"
)

// Settings holds mcpdoctor configuration loaded from config.yaml.
type Settings struct {
	// TimeoutSeconds bounds each connection attempt.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// OAuth configures the loopback authorization flow used by --oauth.
	OAuth OAuthSettings `yaml:"oauth"`

	// History configures the local inspection history store.
	History HistorySettings `yaml:"history"`

	// Log configures structured logging.
	Log LogSettings `yaml:"log"`
}

// OAuthSettings configures the OAuth authorization-code flow.
type OAuthSettings struct {
	// ClientID is the pre-registered OAuth client ID. When empty, dynamic
	// client registration is attempted against the authorization server.
	ClientID string `yaml:"client_id"`

	// ClientSecret is the OAuth client secret, if the client is confidential.
	ClientSecret string `yaml:"client_secret"`

	// RedirectPort is the localhost port the loopback listener binds for the
	// authorization redirect.
	RedirectPort int `yaml:"redirect_port"`

	// Scopes are the OAuth scopes to request.
	Scopes []string `yaml:"scopes"`

	// WaitMinutes bounds how long the loopback listener waits for the
	// authorization redirect before giving up.
	WaitMinutes int `yaml:"wait_minutes"`
}

// HistorySettings configures the inspection history store.
type HistorySettings struct {
	// Disabled turns off history recording entirely.
	Disabled bool `yaml:"disabled"`

	// Path overrides the database location (default: <data dir>/history.db).
	Path string `yaml:"path"`
}

// LogSettings configures logging defaults. Environment variables
// (MCPDOCTOR_DEBUG, LOG_LEVEL, LOG_FORMAT) take precedence.
type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns Settings populated with default values.
func Defaults() *Settings {
	return &Settings{
		TimeoutSeconds: DefaultTimeoutSeconds,
		OAuth: OAuthSettings{
			RedirectPort: DefaultOAuthRedirectPort,
			WaitMinutes:  DefaultOAuthWaitMinutes,
		},
	}
}

// Load reads settings from the given path. An empty path resolves to the XDG
// config location. A missing file is not an error; defaults are returned.
func Load(path string) (*Settings, error) {
	settings := Defaults()

	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	settings.applyDefaults()
	return settings, nil
}

// applyDefaults fills zero values left by a partial config file.
func (s *Settings) applyDefaults() {
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if s.OAuth.RedirectPort <= 0 {
		s.OAuth.RedirectPort = DefaultOAuthRedirectPort
	}
	if s.OAuth.WaitMinutes <= 0 {
		s.OAuth.WaitMinutes = DefaultOAuthWaitMinutes
	}
}

// Timeout returns the connection timeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// HistoryPath resolves the history database path, creating the data
// directory if needed.
func (s *Settings) HistoryPath() (string, error) {
	if s.History.Path != "" {
		return s.History.Path, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultHistoryFile), nil
}
