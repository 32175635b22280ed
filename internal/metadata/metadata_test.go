package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const pluginHeader = `<?php
/**
 * Plugin Name: WP Job Manager
 * Plugin URI: https://wpjobmanager.com/
 * Description: Manage job listings from the WordPress admin panel.
 * Version: 2.1.0
 * Author: Automattic
 */

define( 'JOB_MANAGER_VERSION', '2.1.0' );
`

func TestExtract(t *testing.T) {
	info, err := Extract(pluginHeader)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if info.Version != "2.1.0" {
		t.Errorf("Version = %q, want %q", info.Version, "2.1.0")
	}
	if info.DisplayName != "WP Job Manager" {
		t.Errorf("DisplayName = %q, want %q", info.DisplayName, "WP Job Manager")
	}
}

func TestExtract_CRLF(t *testing.T) {
	info, err := Extract("Plugin Name: Thing\r\nVersion: 1.0.0\r\n")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if info.Version != "1.0.0" || info.DisplayName != "Thing" {
		t.Errorf("Extract() = %+v, want {1.0.0 Thing}", info)
	}
}

func TestExtract_Missing(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no version", "Plugin Name: Thing\n", ErrVersionNotFound},
		{"empty version", "Plugin Name: Thing\nVersion: \n", ErrVersionNotFound},
		{"no name", "Version: 1.0.0\n", ErrNameNotFound},
		{"empty file", "", ErrVersionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Extract(tt.content)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Extract() error = %v, want %v", err, tt.want)
			}
			if info != (Info{}) {
				t.Errorf("Extract() returned partial result %+v", info)
			}
		})
	}
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugin.php")
	if err := os.WriteFile(path, []byte(pluginHeader), 0644); err != nil {
		t.Fatalf("Failed to write plugin file: %v", err)
	}

	info, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if info.Version != "2.1.0" {
		t.Errorf("Version = %q, want %q", info.Version, "2.1.0")
	}
}

func TestRead_FileNotFound(t *testing.T) {
	if _, err := Read("/nonexistent/plugin.php"); err == nil {
		t.Error("Read() expected error for nonexistent file, got nil")
	}
}

func TestCheckVersion(t *testing.T) {
	if err := CheckVersion("1.42.0"); err != nil {
		t.Errorf("CheckVersion(1.42.0) error = %v", err)
	}
	if err := CheckVersion("1.42"); err == nil {
		t.Error("CheckVersion(1.42) expected error, got nil")
	}
}
