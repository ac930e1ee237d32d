package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DBDSN       string
	LogFile     string
	LogLevel    string
	PageSize    int
	AdminEmails []string

	// Optional; throttle and csrf state stay in memory without it.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file, using process environment")
	}

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DSN", "filmgrid.db") // sqlite file in project root
	v.SetDefault("LOG_FILE", "./filmgrid.log")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.AutomaticEnv()

	cfg := Config{
		Port:        v.GetString("PORT"),
		DBDSN:       v.GetString("DB_DSN"),
		LogFile:     v.GetString("LOG_FILE"),
		LogLevel:    strings.ToLower(v.GetString("LOG_LEVEL")),
		PageSize:    v.GetInt("PAGE_SIZE"),
		AdminEmails: SplitList(v.GetString("ADMIN_EMAILS")),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s LOG_LEVEL=%s PAGE_SIZE=%d ADMIN_EMAILS=%d REDIS_ADDR=%q",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.LogLevel, cfg.PageSize, len(cfg.AdminEmails), cfg.RedisAddr)
	return cfg
}

// SplitList parses a comma separated list, dropping blanks and lower-casing entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
