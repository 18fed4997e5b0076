package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// fileTOML mirrors Config for TOML files. Pointer fields distinguish unset
// keys from zero values.
type fileTOML struct {
	Class struct {
		Fee  *int64  `toml:"fee"`
		Mode *string `toml:"mode"`
	} `toml:"class"`
	Input struct {
		Roster   *string `toml:"roster"`
		Feedback *string `toml:"feedback"`
	} `toml:"input"`
	Output struct {
		Dir *string `toml:"dir"`
	} `toml:"output"`
	Server struct {
		Addr  *string  `toml:"addr"`
		Rate  *float64 `toml:"rate"`
		Burst *int     `toml:"burst"`
	} `toml:"server"`
	Log struct {
		Level  *string `toml:"level"`
		Format *string `toml:"format"`
	} `toml:"log"`
	Database struct {
		DSN *string `toml:"dsn"`
	} `toml:"database"`
}

func (c *Config) loadTOML(path string) error {
	var f fileTOML
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	set(&c.Class.Fee, f.Class.Fee)
	set(&c.Class.Mode, f.Class.Mode)
	set(&c.Input.Roster, f.Input.Roster)
	set(&c.Input.Feedback, f.Input.Feedback)
	set(&c.Output.Dir, f.Output.Dir)
	set(&c.Server.Addr, f.Server.Addr)
	set(&c.Server.Rate, f.Server.Rate)
	set(&c.Server.Burst, f.Server.Burst)
	set(&c.Log.Level, f.Log.Level)
	set(&c.Log.Format, f.Log.Format)
	set(&c.Database.DSN, f.Database.DSN)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
