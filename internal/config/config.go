package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// Supabase project settings. The connection string points at the
	// project's Postgres instance; URL and anon key are used for the
	// GoTrue auth proxy.
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	SupabaseURL        string `envconfig:"SUPABASE_URL" required:"true"`
	SupabaseAnonKey    string `envconfig:"SUPABASE_ANON_KEY" required:"true"`
	JWTSecret          string `envconfig:"SUPABASE_JWT_SECRET" required:"true"`

	// Generation backend. Empty means no backend is configured and the
	// executor falls back to the simulation path.
	GenerationAPIURL string `envconfig:"GENERATION_API_URL" default:""`

	// Supabase Storage (S3-compatible) settings for reference uploads.
	S3URL       string `envconfig:"SUPABASE_S3_URL" required:"true"`
	S3Bucket    string `envconfig:"SUPABASE_S3_BUCKET" default:"references"`
	S3Region    string `envconfig:"SUPABASE_S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"SUPABASE_S3_ACCESS_KEY" required:"true"`
	S3SecretKey string `envconfig:"SUPABASE_S3_SECRET_KEY" required:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
