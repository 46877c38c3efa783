package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 对应于 config.yaml 的顶级结构
type Config struct {
	Token      string     `mapstructure:"TOKEN"`
	DB         DB         `mapstructure:"db"`
	Commands   Commands   `mapstructure:"commands"`
	Engagement Engagement `mapstructure:"engagement"`
}

// DB 对应 "db" 部分
type DB struct {
	Path string `mapstructure:"path"`
}

// Commands 对应 "commands" 部分
type Commands struct {
	Allowguils []string `mapstructure:"allowguils"`
}

// Engagement 对应 "engagement" 部分
type Engagement struct {
	LogChannelID    string `mapstructure:"log_channel_id"`
	ReportChannelID string `mapstructure:"report_channel_id"`
	// Comma-separated list of channels that accept link submissions.
	AllowedChannelIDs string `mapstructure:"allowed_channel_ids"`
	// Legacy single-channel configuration. Folded into the allowed set
	// at load time; there is no separate single-channel mode.
	YapChannelID string `mapstructure:"yap_channel_id"`
	// Bound on a single persistence call while a guild lock is held.
	StoreTimeoutSeconds int `mapstructure:"store_timeout_seconds"`
}

var Cfg Config

func LoadConfig() (err error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&Cfg)
	return
}

// AllowedChannels returns the configured submission channels as a slice.
// The legacy yap_channel_id counts as a one-element list when no
// allowed_channel_ids are set.
func (e Engagement) AllowedChannels() []string {
	var ids []string
	for _, part := range strings.Split(e.AllowedChannelIDs, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, part)
		}
	}
	if len(ids) == 0 && e.YapChannelID != "" {
		ids = append(ids, e.YapChannelID)
	}
	return ids
}

// StoreTimeout returns the persistence timeout, defaulting to 3s.
func (e Engagement) StoreTimeout() time.Duration {
	if e.StoreTimeoutSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(e.StoreTimeoutSeconds) * time.Second
}
