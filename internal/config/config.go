package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Reference chart sources.
const (
	RefEmbedded = "embedded"
	RefFS       = "fs"
	RefS3       = "s3"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	RefSource   string // embedded|fs|s3
	RefBasePath string // fs directory
	RefLazy     bool   // load charts on first classification instead of at startup

	RefS3Bucket    string
	RefS3Region    string
	RefS3Endpoint  string // optional, for MinIO
	RefS3Prefix    string // e.g. "charts/who/"
	RefS3PathStyle bool
	RefS3AccessKey string
	RefS3SecretKey string

	EnableMetrics bool

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:     mode,
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		RefSource:   strings.ToLower(envOr("REFERENCE_SOURCE", RefEmbedded)),
		RefBasePath: envOr("REFERENCE_BASE_PATH", "./data/charts"),
		RefLazy:     envBool("REFERENCE_LAZY", false),

		RefS3Bucket:    os.Getenv("REFERENCE_S3_BUCKET"),
		RefS3Region:    envOr("REFERENCE_S3_REGION", "us-east-1"),
		RefS3Endpoint:  os.Getenv("REFERENCE_S3_ENDPOINT"),
		RefS3Prefix:    os.Getenv("REFERENCE_S3_PREFIX"),
		RefS3PathStyle: envBool("REFERENCE_S3_PATH_STYLE", false),
		RefS3AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		RefS3SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),

		EnableMetrics: envBool("ENABLE_METRICS", true),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://growth.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
	}
}

// CORSOrigins returns the allow-list for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
