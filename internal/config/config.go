package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	TranslationsDir string
	SourceDir       string
	Marker          string
	Extension       string
	IgnoreFile      string
	NestedIgnore    bool
	LineNumbers     bool
	Indent          int
	SourceLanguage  string
	DatabaseURL     string
	Neo4jURI        string
	Neo4jUser       string
	Neo4jPassword   string
	BatchSize       int
	LogLevel        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		TranslationsDir: getEnv("LOCALIZE_TRANSLATIONS_DIR", "i18n"),
		SourceDir:       getEnv("LOCALIZE_SOURCE_DIR", "."),
		Marker:          getEnv("LOCALIZE_MARKER", "$localize"),
		Extension:       getEnv("LOCALIZE_EXTENSION", ".ts"),
		IgnoreFile:      getEnv("LOCALIZE_IGNORE_FILE", ".gitignore"),
		NestedIgnore:    getEnvBool("LOCALIZE_NESTED_IGNORE", false),
		LineNumbers:     getEnvBool("LOCALIZE_LINE_NUMBERS", false),
		Indent:          getEnvInt("XLIFF_INDENT", 4),
		SourceLanguage:  getEnv("XLIFF_SOURCE_LANGUAGE", "en"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		Neo4jURI:        getEnv("NEO4J_URI", ""),
		Neo4jUser:       getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:   getEnv("NEO4J_PASSWORD", ""),
		BatchSize:       getEnvInt("BATCH_SIZE", 100),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
