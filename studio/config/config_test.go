package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "proj")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "")
	t.Setenv("ASSET_PREFIX", "")
	t.Setenv("ASSET_MATCH_THRESHOLD", "")
	t.Setenv("SIGNED_URL_TTL_MINUTES", "")
	t.Setenv("AGENT_TEMPERATURE", "")

	cfg := Load()
	if cfg.Location != "us-central1" {
		t.Fatalf("Location mismatch: got %q", cfg.Location)
	}
	if cfg.AssetPrefix != "high_resolution_images" {
		t.Fatalf("AssetPrefix mismatch: got %q", cfg.AssetPrefix)
	}
	if cfg.FuzzyThreshold != 80 {
		t.Fatalf("FuzzyThreshold mismatch: got %d", cfg.FuzzyThreshold)
	}
	if cfg.SignedURLTTL.Minutes() != 120 {
		t.Fatalf("SignedURLTTL mismatch: got %v", cfg.SignedURLTTL)
	}
	for name, s := range map[string]AgentSettings{
		"router":     cfg.RouterSettings,
		"asset":      cfg.AssetSettings,
		"image_gen":  cfg.ImageGenSettings,
		"image_edit": cfg.ImageEditSettings,
	} {
		if s.Temperature != 0.3 {
			t.Fatalf("%s Temperature mismatch: got %v", name, s.Temperature)
		}
		if s.MaxOutputTokens != 4096 {
			t.Fatalf("%s MaxOutputTokens mismatch: got %d", name, s.MaxOutputTokens)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "proj")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "europe-west4")
	t.Setenv("ROOT_AGENT_MODEL", "gemini-2.5-pro")
	t.Setenv("ASSET_MATCH_THRESHOLD", "90")
	t.Setenv("AGENT_TEMPERATURE", "0.7")
	t.Setenv("IMAGE_GEN_AGENT_TEMPERATURE", "0.1")
	t.Setenv("IMAGE_GEN_AGENT_MAX_TOKENS", "8192")

	cfg := Load()
	if cfg.Location != "europe-west4" {
		t.Fatalf("Location mismatch: got %q", cfg.Location)
	}
	if cfg.RouterModel != "gemini-2.5-pro" {
		t.Fatalf("RouterModel mismatch: got %q", cfg.RouterModel)
	}
	if cfg.FuzzyThreshold != 90 {
		t.Fatalf("FuzzyThreshold mismatch: got %d", cfg.FuzzyThreshold)
	}
	if cfg.RouterSettings.Temperature != 0.7 {
		t.Fatalf("RouterSettings.Temperature mismatch: got %v", cfg.RouterSettings.Temperature)
	}
	if cfg.ImageGenSettings.Temperature != 0.1 {
		t.Fatalf("ImageGenSettings.Temperature mismatch: got %v", cfg.ImageGenSettings.Temperature)
	}
	if cfg.ImageGenSettings.MaxOutputTokens != 8192 {
		t.Fatalf("ImageGenSettings.MaxOutputTokens mismatch: got %d", cfg.ImageGenSettings.MaxOutputTokens)
	}
	if cfg.AssetSettings.Temperature != 0.7 {
		t.Fatalf("AssetSettings.Temperature mismatch: got %v", cfg.AssetSettings.Temperature)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Location: "us-central1"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing project")
	}

	cfg.ProjectID = "proj"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing asset bucket")
	}

	cfg.AssetBucket = "sku-data"
	cfg.OutputBucket = "outputs"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
