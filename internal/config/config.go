package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `env:"ENV" env-required:"true"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer HttpServer
	Remote     Remote
	Cache      Cache
	Sync       Sync
	Limiter    Limiter
	Database   Database
}

type HttpServer struct {
	Port           string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	SwaggerEnabled bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
}

// Remote points at the authoritative region store.
type Remote struct {
	BaseURL      string        `env:"REMOTE_BASE_URL" env-required:"true" env-description:"base URL of the remote region store, e.g. https://store.internal/api"`
	Timeout      time.Duration `env:"REMOTE_TIMEOUT" env-default:"10s"`
	ProbeTimeout time.Duration `env:"REMOTE_PROBE_TIMEOUT" env-default:"5s"`
}

type Sync struct {
	CacheTTL      time.Duration `env:"SYNC_CACHE_TTL" env-default:"5m" env-description:"in-memory region map cache freshness window"`
	ProbeInterval string        `env:"SYNC_PROBE_INTERVAL" env-default:"@every 1m" env-description:"scheduler spec for the periodic connectivity probe"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

// Database is only used by the regionstore binary, the reference
// implementation of the remote store contract.
type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-default:""`
	DBName             string        `env:"DB_NAME" env-default:""`
	User               string        `env:"DB_USER" env-default:""`
	Password           string        `env:"DB_PASSWORD" env-default:""`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"40"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"40"`
}

const (
	CacheTypeMemory = "memory"
)

type Cache struct {
	Type  string `env:"CACHE_TYPE" env-default:"redis" env-description:"durable local cache provider, one of redis/redisCluster/memory"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	return &cfg
}
