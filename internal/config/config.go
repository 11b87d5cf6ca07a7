package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Env      string `mapstructure:"env"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

type MongoConfig struct {
	URI                     string `mapstructure:"uri"`
	Database                string `mapstructure:"database"`
	MessagesCollection      string `mapstructure:"messages_collection"`
	ConversationsCollection string `mapstructure:"conversations_collection"`
	ProfilesCollection      string `mapstructure:"profiles_collection"`
	ItemsCollection         string `mapstructure:"items_collection"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type KafkaConfig struct {
	Brokers          []string `mapstructure:"brokers"`
	TopicMessageSent string   `mapstructure:"topic_message_sent"`
	GroupID          string   `mapstructure:"group_id"`
}

type NatsConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	SigningMethod string `mapstructure:"signing_method"`
	Secret        string `mapstructure:"secret"`
	PublicKeyPath string `mapstructure:"public_key_path"`
}

type PushConfig struct {
	Endpoint       string  `mapstructure:"endpoint"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RatePerSecond  float64 `mapstructure:"rate_per_second"`
	Burst          int     `mapstructure:"burst"`
}

type S3Config struct {
	Region     string `mapstructure:"region"`
	Bucket     string `mapstructure:"bucket"`
	PublicRead bool   `mapstructure:"public_read"`
}

type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Mongo     MongoConfig     `mapstructure:"mongodb"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Nats      NatsConfig      `mapstructure:"nats"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Push      PushConfig      `mapstructure:"push"`
	S3        S3Config        `mapstructure:"s3"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// derived values
	RequestTimeout  time.Duration
	PushTimeout     time.Duration
	RateLimitWindow time.Duration
	PresenceTTL     time.Duration
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}

	// sensible defaults
	if c.App.Port == 0 {
		c.App.Port = 8083
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "marketplace"
	}
	if c.Mongo.MessagesCollection == "" {
		c.Mongo.MessagesCollection = "messages"
	}
	if c.Mongo.ConversationsCollection == "" {
		c.Mongo.ConversationsCollection = "conversations"
	}
	if c.Mongo.ProfilesCollection == "" {
		c.Mongo.ProfilesCollection = "profiles"
	}
	if c.Mongo.ItemsCollection == "" {
		c.Mongo.ItemsCollection = "marketplace_items"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "mkt"
	}
	if c.Kafka.TopicMessageSent == "" {
		c.Kafka.TopicMessageSent = "message.sent"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "chat-backend-group"
	}
	if c.JWT.SigningMethod == "" {
		c.JWT.SigningMethod = "HS256"
	}
	if c.Push.Endpoint == "" {
		c.Push.Endpoint = "https://exp.host/--/api/v2/push/send"
	}
	if c.Push.TimeoutSeconds == 0 {
		c.Push.TimeoutSeconds = 10
	}
	if c.Push.RatePerSecond == 0 {
		c.Push.RatePerSecond = 20
	}
	if c.Push.Burst == 0 {
		c.Push.Burst = 40
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 120
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}

	c.RequestTimeout = 10 * time.Second
	c.PushTimeout = time.Duration(c.Push.TimeoutSeconds) * time.Second
	c.RateLimitWindow = time.Duration(c.RateLimit.WindowSeconds) * time.Second
	c.PresenceTTL = 2 * time.Hour
	return &c, nil
}
