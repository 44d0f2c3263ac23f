package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置；来自 config.yaml，环境变量可覆盖（NEWSPORTAL_ 前缀）
type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
		Mode string `mapstructure:"mode"` // gin debug/release
	} `mapstructure:"server"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`

	Database struct {
		Driver string `mapstructure:"driver"` // postgres / sqlite
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	JWT struct {
		Secret string        `mapstructure:"secret"`
		TTL    time.Duration `mapstructure:"ttl"`
	} `mapstructure:"jwt"`

	News struct {
		APIKey   string        `mapstructure:"api_key"`
		BaseURL  string        `mapstructure:"base_url"`
		Country  string        `mapstructure:"country"`
		PageSize int           `mapstructure:"page_size"`
		Timeout  time.Duration `mapstructure:"timeout"`
		CSVPath  string        `mapstructure:"csv_path"`
	} `mapstructure:"news"`

	TTS struct {
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"tts"`

	Stats struct {
		// DecrementOnRemove 控制取消点赞/收藏时是否回扣计数。
		// 默认 false，保留线上观测到的只增不减行为。
		DecrementOnRemove bool `mapstructure:"decrement_on_remove"`
		QueueSize         int  `mapstructure:"queue_size"`
		Workers           int  `mapstructure:"workers"`
	} `mapstructure:"stats"`

	Cache struct {
		MirrorTTL time.Duration `mapstructure:"mirror_ttl"`
	} `mapstructure:"cache"`

	RateLimit struct {
		RPS   float64 `mapstructure:"rps"`
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`

	Sentry struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"sentry"`

	Otel struct {
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"otel"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=newsportal port=5432 sslmode=disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("news.base_url", "https://newsapi.org/v2")
	v.SetDefault("news.country", "us")
	v.SetDefault("news.page_size", 50)
	v.SetDefault("news.timeout", 10*time.Second)
	v.SetDefault("news.csv_path", "latest_news.csv")
	v.SetDefault("tts.cache_ttl", time.Hour)
	v.SetDefault("stats.decrement_on_remove", false)
	v.SetDefault("stats.queue_size", 10000)
	v.SetDefault("stats.workers", 4)
	v.SetDefault("cache.mirror_ttl", 5*time.Minute)
	v.SetDefault("rate_limit.rps", 20)
	v.SetDefault("rate_limit.burst", 40)
}

// Load 读取配置文件并应用环境覆盖；文件缺失时使用默认值
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("NEWSPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
