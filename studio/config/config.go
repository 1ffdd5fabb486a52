// Package config loads the studio configuration from environment variables,
// honoring a .env file when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every knob the studio needs: Google Cloud targeting, per-agent
// model names, tool model names, bucket names and tool tuning parameters.
type Config struct {
	ProjectID string
	Location  string

	// Agent models drive the conversational loop of each agent.
	RouterModel    string
	AssetModel     string
	ImageGenModel  string
	ImageEditModel string

	// Tool models are the hosted image models the tools call out to.
	GenerationModel  string
	EditFastModel    string
	EditQualityModel string
	EditGeminiModel  string

	// Buckets.
	AssetBucket  string
	OutputBucket string
	UploadBucket string

	AssetPrefix    string
	FuzzyThreshold int
	SignedURLTTL   time.Duration

	// Per-agent sampling settings. AGENT_TEMPERATURE and AGENT_MAX_TOKENS
	// set the shared defaults; <AGENT>_TEMPERATURE / <AGENT>_MAX_TOKENS
	// override them for a single agent.
	RouterSettings    AgentSettings
	AssetSettings     AgentSettings
	ImageGenSettings  AgentSettings
	ImageEditSettings AgentSettings

	MaxModelCalls int
}

// AgentSettings tunes one agent's conversational model.
type AgentSettings struct {
	Temperature     float64
	MaxOutputTokens int
}

// Load reads configuration from the environment, consulting .env first. A
// missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	temperature := getEnvFloat("AGENT_TEMPERATURE", 0.3)
	maxTokens := getEnvInt("AGENT_MAX_TOKENS", 4096)

	return &Config{
		ProjectID: os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:  getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),

		RouterModel:    getEnv("ROOT_AGENT_MODEL", "gemini-2.5-flash"),
		AssetModel:     getEnv("ASSET_AGENT_MODEL", "gemini-2.5-flash"),
		ImageGenModel:  getEnv("IMAGE_GEN_AGENT_MODEL", "gemini-2.5-flash"),
		ImageEditModel: getEnv("IMAGE_EDIT_AGENT_MODEL", "gemini-2.5-flash"),

		GenerationModel:  getEnv("IMAGE_GENERATION_TOOL_MODEL", "gemini-2.5-flash-image"),
		EditFastModel:    getEnv("IMAGE_BACKGROUND_FAST_TOOL_MODEL", "imagegeneration@002"),
		EditQualityModel: getEnv("IMAGE_BACKGROUND_QUALITY_TOOL_MODEL", "imagen-3.0-capability-001"),
		EditGeminiModel:  getEnv("IMAGE_EDIT_TOOL_MODEL", "gemini-2.5-flash-image"),

		AssetBucket:  os.Getenv("GCS_BUCKET_SKU_DATA"),
		OutputBucket: os.Getenv("GCS_BUCKET_AGENT_OUTPUTS"),
		UploadBucket: os.Getenv("GCS_BUCKET_USER_UPLOADS"),

		AssetPrefix:    getEnv("ASSET_PREFIX", "high_resolution_images"),
		FuzzyThreshold: getEnvInt("ASSET_MATCH_THRESHOLD", 80),
		SignedURLTTL:   time.Minute * time.Duration(getEnvInt("SIGNED_URL_TTL_MINUTES", 120)),

		RouterSettings:    agentSettings("ROOT_AGENT", temperature, maxTokens),
		AssetSettings:     agentSettings("ASSET_AGENT", temperature, maxTokens),
		ImageGenSettings:  agentSettings("IMAGE_GEN_AGENT", temperature, maxTokens),
		ImageEditSettings: agentSettings("IMAGE_EDIT_AGENT", temperature, maxTokens),

		MaxModelCalls: getEnvInt("MAX_MODEL_CALLS", 100),
	}
}

func agentSettings(prefix string, temperature float64, maxTokens int) AgentSettings {
	return AgentSettings{
		Temperature:     getEnvFloat(prefix+"_TEMPERATURE", temperature),
		MaxOutputTokens: getEnvInt(prefix+"_MAX_TOKENS", maxTokens),
	}
}

// Validate reports the first missing required value.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required")
	}
	if c.Location == "" {
		return fmt.Errorf("GOOGLE_CLOUD_LOCATION is required")
	}
	if c.AssetBucket == "" {
		return fmt.Errorf("GCS_BUCKET_SKU_DATA is required")
	}
	if c.OutputBucket == "" {
		return fmt.Errorf("GCS_BUCKET_AGENT_OUTPUTS is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
