// Package config loads the settings file and the module windows.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/naka-gawa/late-repos/internal/domain"
)

// DefaultConfigFiles are tried in order when --config is not given.
var DefaultConfigFiles = []string{"late-repos.yaml", "config.ini"}

const (
	// SettingsDateLayout is the date format of the settings file's module section.
	SettingsDateLayout = "2006-01-02"

	SourceREST    = "rest"
	SourceGraphQL = "graphql"

	UpdateFieldPushed  = "pushed"
	UpdateFieldUpdated = "updated"
)

// Settings holds credentials, organization and API options.
type Settings struct {
	Token       string `mapstructure:"token"`
	OrgName     string `mapstructure:"orgName"`
	Timezone    string `mapstructure:"timezone"`
	Source      string `mapstructure:"source"`
	UpdateField string `mapstructure:"updateField"`
	APIURL      string `mapstructure:"apiURL"`
	GraphQLURL  string `mapstructure:"graphqlURL"`
	// AuthToken is the config.ini spelling of Token; Token wins when both are set.
	AuthToken string `mapstructure:"authToken"`
}

// ModuleEntry is the single module of the settings file.
type ModuleEntry struct {
	Module    string `mapstructure:"module"`
	StartDate string `mapstructure:"startDate"`
	EndDate   string `mapstructure:"endDate"`
}

func (e ModuleEntry) empty() bool {
	return e.Module == "" && e.StartDate == "" && e.EndDate == ""
}

// Config is the decoded settings file.
type Config struct {
	Settings Settings    `mapstructure:"settings"`
	Modules  ModuleEntry `mapstructure:"modules"`
}

// Load reads the settings file at path and applies environment overrides.
// YAML, JSON, TOML and INI are recognised by extension; anything else is read
// as YAML. An empty path tries DefaultConfigFiles, all of which may be absent;
// an explicit path that does not exist is an error.
func Load(path string, logger *zap.Logger) (*Config, error) {
	v := newViper()
	v.SetDefault("settings.timezone", "Local")
	v.SetDefault("settings.source", SourceREST)
	v.SetDefault("settings.updateField", UpdateFieldPushed)
	_ = v.BindEnv("settings.token", "LATEREPOS_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("settings.orgName", "LATEREPOS_ORG")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	} else {
		found, err := findDefaultConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	if path == "" {
		logger.Debug("no config file, using environment only", zap.Strings("tried", DefaultConfigFiles))
	} else {
		v.SetConfigFile(path)
		v.SetConfigType(configType(path))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		logger.Debug("using config file", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.DecodeHookFuncType(timeToDateHook))); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if cfg.Settings.Token == "" {
		cfg.Settings.Token = cfg.Settings.AuthToken
	}
	return &cfg, nil
}

func findDefaultConfig() (string, error) {
	for _, name := range DefaultConfigFiles {
		_, err := os.Stat(name)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat config file %s: %w", name, err)
		}
	}
	return "", nil
}

func configType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "yaml", "yml", "json", "toml", "ini":
		return ext
	}
	return "yaml"
}

// timeToDateHook turns YAML and TOML timestamps back into date strings so that unquoted
// dates decode the same way as quoted ones.
func timeToDateHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if t, ok := data.(time.Time); ok {
		return t.Format(SettingsDateLayout), nil
	}
	return data, nil
}

// Validate checks the settings needed to talk to GitHub.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Settings.Token) == "" {
		return ErrMissingToken
	}
	if strings.TrimSpace(c.Settings.OrgName) == "" {
		return ErrMissingOrganization
	}
	switch c.Settings.Source {
	case SourceREST, SourceGraphQL:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Settings.Source)
	}
	switch c.Settings.UpdateField {
	case UpdateFieldPushed, UpdateFieldUpdated:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownUpdateField, c.Settings.UpdateField)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves settings.timezone. Dates are interpreted and displayed in it.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Settings.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// LoadModules returns the module windows from the active source: the dates
// text file when datesPath is set, otherwise the settings file's modules section.
func (c *Config) LoadModules(datesPath string, loc *time.Location, logger *zap.Logger) ([]domain.Module, error) {
	if datesPath != "" {
		return LoadDatesFile(datesPath, loc, logger)
	}
	return c.settingsModules(loc, logger)
}

func (c *Config) settingsModules(loc *time.Location, logger *zap.Logger) ([]domain.Module, error) {
	entry := c.Modules
	if entry.empty() {
		return nil, ErrNoModules
	}
	if entry.Module == "" || entry.StartDate == "" || entry.EndDate == "" {
		return nil, ErrMissingModuleField
	}
	m, err := newModule(entry.Module, entry.StartDate, entry.EndDate, SettingsDateLayout, loc)
	if err != nil {
		return nil, err
	}
	warnInverted(m, logger)
	return []domain.Module{m}, nil
}

func newModule(name, start, end, layout string, loc *time.Location) (domain.Module, error) {
	startAt, err := time.ParseInLocation(layout, strings.TrimSpace(start), loc)
	if err != nil {
		return domain.Module{}, fmt.Errorf("module %q: invalid start date %q: %w", name, start, err)
	}
	endAt, err := time.ParseInLocation(layout, strings.TrimSpace(end), loc)
	if err != nil {
		return domain.Module{}, fmt.Errorf("module %q: invalid end date %q: %w", name, end, err)
	}
	return domain.Module{Name: strings.TrimSpace(name), Start: startAt, End: endAt}, nil
}

func warnInverted(m domain.Module, logger *zap.Logger) {
	if m.Start.After(m.End) {
		logger.Warn("module window ends before it starts and will match nothing",
			zap.String("module", m.Name),
			zap.Time("start", m.Start),
			zap.Time("end", m.End),
		)
	}
}
