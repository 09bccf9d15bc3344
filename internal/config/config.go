package config

import (
	"os"
	"strconv"
	"time"
)

// Config lifesnaps-data 配置
type Config struct {
	Mongo struct {
		URI        string
		Database   string
		Collection string
		Timeout    time.Duration
	}
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
		// 已知参与者 id 集合的缓存有效期（秒）
		ParticipantTTL time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
}

func Load() *Config {
	cfg := &Config{}

	cfg.Mongo.URI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	cfg.Mongo.Database = getEnv("MONGO_DB", "rais_anonymized")
	cfg.Mongo.Collection = getEnv("MONGO_COLLECTION", "fitbit")
	cfg.Mongo.Timeout = time.Duration(parseInt(getEnv("MONGO_TIMEOUT_SECONDS", "30"), 30)) * time.Second

	// Redis 仅用于缓存参与者 id 集合，默认禁用；原始事件数据永不缓存
	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)
	cfg.Redis.ParticipantTTL = time.Duration(parseInt(getEnv("REDIS_PARTICIPANT_TTL_SECONDS", "300"), 300)) * time.Second

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
