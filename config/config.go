package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SystemConfig `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LogConfig    `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "gomall",
		Location: "Asia/Shanghai",
		Workdir:  "/var/gomall",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-gomall-web-secret",
		JwtSecret: "9b6de5cc-gomall-jwt-secret",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "gomall_v1",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/gomall/gomall.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvInt64Value(name string, f func(v int64)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := cast.ToInt64E(evalue)
	if err == nil {
		f(p)
	}
}

// LoadConfig reads the yaml configuration file and applies environment
// overrides. A missing file falls back to defaults.
func LoadConfig(cfile string) *AppConfig {
	_ = godotenv.Load()

	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("GOMALL_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("GOMALL_SYSTEM_DEBUG", func(v string) { cfg.System.Debug = v == "true" })
	setEnvValue("GOMALL_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvInt64Value("GOMALL_WEB_PORT", func(v int64) { cfg.Web.Port = int(v) })
	setEnvValue("GOMALL_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("GOMALL_WEB_JWT_SECRET", func(v string) { cfg.Web.JwtSecret = v })
	setEnvValue("GOMALL_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("GOMALL_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvInt64Value("GOMALL_DB_PORT", func(v int64) { cfg.Database.Port = int(v) })
	setEnvValue("GOMALL_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("GOMALL_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("GOMALL_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("GOMALL_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })

	return cfg
}
