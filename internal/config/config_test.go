// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Timeout())
	assert.True(t, cfg.UI.Markdown)
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
base_url = "http://chat.example.test:9000"
timeout_secs = 30

[ui]
theme = "light"
markdown = false
sidebar_width = 40
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://chat.example.test:9000", cfg.Server.BaseURL)
	assert.Equal(t, 30, cfg.Server.TimeoutSecs)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.False(t, cfg.UI.Markdown)
	assert.Equal(t, 40, cfg.UI.SidebarWidth)
}

func TestLoadFromPathFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nbase_url = \"http://h:1\"\n"), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Server.TimeoutSecs, "missing timeout should default")
	assert.Equal(t, "dark", cfg.UI.Theme, "missing theme should default")
	assert.Equal(t, 32, cfg.UI.SidebarWidth)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PARLEY_SERVER_URL", "http://override.test:7000")
	t.Setenv("PARLEY_TIMEOUT_SECS", "15")
	t.Setenv("PARLEY_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "http://override.test:7000", cfg.Server.BaseURL)
	assert.Equal(t, 15, cfg.Server.TimeoutSecs)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestEnvOverrideIgnoresBadTimeout(t *testing.T) {
	t.Setenv("PARLEY_TIMEOUT_SECS", "not-a-number")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, 60, cfg.Server.TimeoutSecs)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing scheme", func(c *Config) { c.Server.BaseURL = "localhost:8000" }},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://host" }},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSecs = 0 }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }},
		{"sidebar too narrow", func(c *Config) { c.UI.SidebarWidth = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromPathRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nbase_url"), 0600))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}
