// Package config loads run settings from an .ini or .toml file, a .env file
// and ATTENDANCE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

var ErrUnknownFormat = errors.New("unknown config format")

const (
	DefaultFee       = 150000
	DefaultMode      = "Online"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultAddr      = ":39039"
	DefaultRate      = 5
	DefaultBurst     = 5
	DefaultOutputDir = "reports"
)

type Config struct {
	Class    ClassConfig
	Input    InputConfig
	Output   OutputConfig
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
}

type ClassConfig struct {
	Fee  int64
	Mode string
}

type InputConfig struct {
	Roster   string
	Feedback string
}

type OutputConfig struct {
	Dir string
}

type ServerConfig struct {
	Addr  string
	Rate  float64
	Burst int
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	DSN string
}

func Default() *Config {
	return &Config{
		Class:  ClassConfig{Fee: DefaultFee, Mode: DefaultMode},
		Output: OutputConfig{Dir: DefaultOutputDir},
		Server: ServerConfig{Addr: DefaultAddr, Rate: DefaultRate, Burst: DefaultBurst},
		Log:    LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Load builds the config from defaults, the file at path (if any) and the
// environment. A .env file in the working directory is read but never
// overrides variables already set.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ini", ".conf":
		return c.loadINI(path)
	case ".toml":
		return c.loadTOML(path)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, ext)
	}
}

func (c *Config) loadINI(path string) error {
	f, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	sec := f.Section("class")
	c.Class.Fee = sec.Key("fee").MustInt64(c.Class.Fee)
	c.Class.Mode = sec.Key("mode").MustString(c.Class.Mode)

	sec = f.Section("input")
	c.Input.Roster = sec.Key("roster").MustString(c.Input.Roster)
	c.Input.Feedback = sec.Key("feedback").MustString(c.Input.Feedback)

	c.Output.Dir = f.Section("output").Key("dir").MustString(c.Output.Dir)

	sec = f.Section("server")
	c.Server.Addr = sec.Key("addr").MustString(c.Server.Addr)
	c.Server.Rate = sec.Key("rate").MustFloat64(c.Server.Rate)
	c.Server.Burst = sec.Key("burst").MustInt(c.Server.Burst)

	sec = f.Section("log")
	c.Log.Level = sec.Key("level").MustString(c.Log.Level)
	c.Log.Format = sec.Key("format").MustString(c.Log.Format)

	c.Database.DSN = f.Section("database").Key("dsn").MustString(c.Database.DSN)
	return nil
}

type envFunc func(string) string

func (c *Config) applyEnv(getenv envFunc) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str("ATTENDANCE_MODE", &c.Class.Mode)
	str("ATTENDANCE_ROSTER", &c.Input.Roster)
	str("ATTENDANCE_FEEDBACK", &c.Input.Feedback)
	str("ATTENDANCE_OUTPUT_DIR", &c.Output.Dir)
	str("ATTENDANCE_ADDR", &c.Server.Addr)
	str("ATTENDANCE_LOG_LEVEL", &c.Log.Level)
	str("ATTENDANCE_LOG_FORMAT", &c.Log.Format)
	str("ATTENDANCE_DSN", &c.Database.DSN)

	if v := strings.TrimSpace(getenv("ATTENDANCE_FEE")); v != "" {
		fee, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ATTENDANCE_FEE: %w", err)
		}
		c.Class.Fee = fee
	}
	return nil
}
