package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MaxUniqueForCategoricals != 20 || c.IDLikeThreshold != 0.9 || c.Bins != 30 || c.Seed != 42 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.OutputFormat != "markdown" {
		t.Fatalf("output_format = %q", c.OutputFormat)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eda.yaml")
	if err := os.WriteFile(path, []byte("top_n: 4\nseed: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EDA_SEED", "99")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.TopN != 4 {
		t.Fatalf("top_n = %d", c.TopN)
	}
	if c.Seed != 99 {
		t.Fatalf("env should override file seed, got %d", c.Seed)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eda.toml")
	if err := os.WriteFile(path, []byte("bins = 12\nid_like_threshold = 0.8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Bins != 12 || c.IDLikeThreshold != 0.8 {
		t.Fatalf("unexpected toml values: %+v", c)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("test_size: 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "test_size") {
		t.Fatalf("expected test_size validation error, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"config.yaml", "config.toml"} {
		path := filepath.Join(t.TempDir(), name)
		c, err := Load(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if err := c.Set("min_unique", "3"); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := c.Set("output_format", "json"); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := Save(c, path); err != nil {
			t.Fatalf("save: %v", err)
		}
		back, err := Load(path)
		if err != nil {
			t.Fatalf("reload %s: %v", name, err)
		}
		if back.MinUnique != 3 || back.OutputFormat != "json" {
			t.Fatalf("%s round trip lost values: %+v", name, back)
		}
	}
}

func TestSetAndGet(t *testing.T) {
	c := &Global{IDLikeThreshold: 0.9, TestSize: 0.5}
	if err := c.Set("seed", "12"); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.Get("seed"); v != "12" {
		t.Fatalf("seed = %s", v)
	}
	if err := c.Set("bins", "-1"); err == nil {
		t.Fatal("expected error for negative bins")
	}
	if err := c.Set("id_like_threshold", "2"); err == nil {
		t.Fatal("expected range error")
	}
	if err := c.Set("nope", "1"); err == nil {
		t.Fatal("expected unknown key error")
	}
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Fatalf("Get(%s): %v", k, err)
		}
	}
}
