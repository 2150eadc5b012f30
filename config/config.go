package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 收藏持久化后端
const (
	FavoritesMemory = "memory"
	FavoritesRedis  = "redis"
	FavoritesMySQL  = "mysql"
)

// Config stores the application configuration.
type Config struct {
	// 远程目录
	CatalogBaseURL      string
	CatalogClientID     string
	CatalogLimit        int
	CatalogQuery        string // 默认搜索关键词，可被每次请求覆盖
	CatalogFetchTimeout time.Duration

	ServerPort string

	FavoritesBackend string // memory, redis, mysql

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis配置
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisKey      string

	LogLevel string
	LogFile  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("20s") or plain seconds ("20").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
// godotenv.Load() will not override existing env vars.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}
	return fromEnv()
}

func fromEnv() *Config {
	return &Config{
		CatalogBaseURL:      getEnv("CATALOG_BASE_URL", "http://api.soundcloud.com"),
		CatalogClientID:     os.Getenv("CATALOG_CLIENT_ID"), // 凭据不设默认值
		CatalogLimit:        getEnvInt("CATALOG_LIMIT", 195),
		CatalogQuery:        getEnv("CATALOG_QUERY", ""),
		CatalogFetchTimeout: getEnvDuration("CATALOG_FETCH_TIMEOUT", 20*time.Second),
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		FavoritesBackend:    getEnv("FAVORITES_BACKEND", FavoritesMemory),
		DBHost:              getEnv("DB_HOST", "127.0.0.1"),
		DBPort:              getEnv("DB_PORT", "3306"),
		DBUser:              getEnv("DB_USER", "root"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              getEnv("DB_NAME", "soundcatalog"),
		RedisHost:           getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RedisKey:            getEnv("REDIS_FAVORITES_KEY", "soundcatalog:favorites"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFile:             getEnv("LOG_FILE", ""),
	}
}
