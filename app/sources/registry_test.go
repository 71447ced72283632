package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lysyi3m/news-feed/app/feed"
)

func writeSource(t *testing.T, dir, file, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryLoadValidSources(t *testing.T) {
	tempDir := t.TempDir()

	writeSource(t, tempDir, "popular.yml", `
title: "Apple - popular"
url: "https://newsapi.org/v2/everything?q=apple&sortBy=popularity&language=en"
settings:
  timeout: 15
`)
	writeSource(t, tempDir, "blog.yaml", `
url: "https://example.com/feed.xml"
format: rss
settings:
  enabled: false
`)

	registry := NewRegistry(tempDir)
	if err := registry.Run(); err != nil {
		t.Fatal(err)
	}

	if registry.GetSourceCount() != 2 {
		t.Errorf("Expected 2 sources, got %d", registry.GetSourceCount())
	}

	popular, err := registry.GetSource("popular")
	if err != nil {
		t.Fatal(err)
	}
	if popular.Name != "popular" {
		t.Errorf("Expected name 'popular', got '%s'", popular.Name)
	}
	if popular.Title != "Apple - popular" {
		t.Errorf("Expected title 'Apple - popular', got '%s'", popular.Title)
	}
	if popular.Format != feed.FormatNewsAPI {
		t.Errorf("Expected default format newsapi, got '%s'", popular.Format)
	}
	if !popular.Settings.Enabled {
		t.Error("Expected source to be enabled by default")
	}
	if popular.Settings.Timeout != 15 {
		t.Errorf("Expected timeout 15, got %d", popular.Settings.Timeout)
	}

	blog, err := registry.GetSource("BLOG")
	if err != nil {
		t.Fatalf("Expected case-insensitive lookup, got: %v", err)
	}
	if blog.Format != feed.FormatSyndication {
		t.Errorf("Expected format rss, got '%s'", blog.Format)
	}
	if blog.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", blog.Settings.Timeout)
	}

	all := registry.GetSources()
	if len(all) != 2 || all[0].Name != "blog" || all[1].Name != "popular" {
		t.Errorf("Expected sources sorted by name, got %v", all)
	}

	enabled := registry.GetEnabledSources()
	if len(enabled) != 1 || enabled[0].Name != "popular" {
		t.Errorf("Expected only 'popular' to be enabled, got %v", enabled)
	}
}

func TestRegistryInvalidSources(t *testing.T) {
	tests := map[string]string{
		"missing url":    "title: nothing\n",
		"relative url":   "url: /v2/everything\n",
		"unknown format": "url: https://example.com\nformat: csv\n",
		"bad timeout":    "url: https://example.com\nsettings:\n  timeout: -1\n",
		"broken yaml":    "url: [unterminated\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			tempDir := t.TempDir()
			writeSource(t, tempDir, "broken.yml", content)

			if err := NewRegistry(tempDir).Run(); err == nil {
				t.Error("Expected error for invalid source")
			}
		})
	}
}

func TestRegistryMissingDirectory(t *testing.T) {
	registry := NewRegistry(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := registry.Run(); err != nil {
		t.Fatalf("Expected no error for missing directory, got: %v", err)
	}
	if registry.GetSourceCount() != 0 {
		t.Errorf("Expected 0 sources, got %d", registry.GetSourceCount())
	}
}

func TestRegistryGetUnknownSource(t *testing.T) {
	registry := NewRegistry(t.TempDir())
	if _, err := registry.GetSource("latest"); err == nil {
		t.Error("Expected error for unknown source")
	}
}
