package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config 定义整个配置的结构
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Wasabi  WasabiConfig  `mapstructure:"wasabi"`
	Export  ExportConfig  `mapstructure:"export"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Trader  TraderConfig  `mapstructure:"trader"`
}

// LogConfig Log 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

// WasabiConfig 交易历史网关
type WasabiConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Env       string `mapstructure:"env"`
	Timeout   int    `mapstructure:"timeout"`    // 秒
	RateLimit int    `mapstructure:"rate_limit"` // 每分钟请求次数，0 不限速
	MaxPages  int    `mapstructure:"max_pages"`  // 0 不限制页数
	UserAgent string `mapstructure:"user_agent"`
}

type ExportConfig struct {
	Dir      string   `mapstructure:"dir"`
	Timezone string   `mapstructure:"timezone"` // 为空使用本地时区
	S3       S3Config `mapstructure:"s3"`
}

// S3Config 导出文件上传，兼容 MinIO/R2 等 S3 协议存储
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type MonitorConfig struct {
	Enable       bool   `mapstructure:"enable"`
	TextfilePath string `mapstructure:"textfile_path"`
}

type TraderConfig struct {
	Address string `mapstructure:"address"`
}

// Location 解析导出时区
func (c ExportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid export timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")
	v.SetDefault("wasabi.base_url", "https://gateway.wasabi.xyz")
	v.SetDefault("wasabi.env", "prod")
	v.SetDefault("wasabi.timeout", 30)
	v.SetDefault("wasabi.rate_limit", 0)
	v.SetDefault("wasabi.max_pages", 0)
	v.SetDefault("wasabi.user_agent", "")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.timezone", "")
	v.SetDefault("export.s3.enabled", false)
	v.SetDefault("export.s3.bucket", "")
	v.SetDefault("export.s3.prefix", "wasabi")
	v.SetDefault("export.s3.region", "us-east-1")
	v.SetDefault("export.s3.endpoint", "")
	v.SetDefault("export.s3.access_key", "")
	v.SetDefault("export.s3.secret_key", "")
	v.SetDefault("monitor.enable", false)
	v.SetDefault("monitor.textfile_path", "")
	v.SetDefault("trader.address", "")
}

// InitConfig 读取 ./config/config.history.yaml，环境变量 HISTORY_* 覆盖文件配置。
// 配置文件不存在时只使用默认值和环境变量。
func InitConfig() Config {
	cfg, err := Load("./config/")
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}
	return cfg
}

func Load(paths ...string) (Config, error) {
	var config Config

	v := viper.New()
	v.SetConfigName("config.history")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("HISTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, err
		}
	}

	// AllSettings 内部走 Get，已注册默认值的 key 都能被环境变量覆盖；
	// 环境变量都是字符串，需要 WeakDecode
	if err := mapstructure.WeakDecode(v.AllSettings(), &config); err != nil {
		return config, err
	}
	return config, nil
}
