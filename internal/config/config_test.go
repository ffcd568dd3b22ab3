package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/naka-gawa/late-repos/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("LATEREPOS_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("LATEREPOS_ORG", "")

	path := writeFile(t, "late-repos.yaml", `settings:
  token: file-token
  orgName: cs-101
  timezone: UTC
modules:
  module: Lab 1
  startDate: 2024-01-01
  endDate: "2024-01-15"
`)

	cfg, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Settings.Token)
	assert.Equal(t, "cs-101", cfg.Settings.OrgName)
	assert.Equal(t, SourceREST, cfg.Settings.Source)
	assert.Equal(t, UpdateFieldPushed, cfg.Settings.UpdateField)
	assert.Equal(t, ModuleEntry{Module: "Lab 1", StartDate: "2024-01-01", EndDate: "2024-01-15"}, cfg.Modules)
	require.NoError(t, cfg.Validate())

	loc, err := cfg.Location()
	require.NoError(t, err)
	modules, err := cfg.LoadModules("", loc, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "Lab 1", modules[0].Name)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), modules[0].Start)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), modules[0].End)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("LATEREPOS_TOKEN", "env-token")
	t.Setenv("LATEREPOS_ORG", "env-org")

	path := writeFile(t, "late-repos.yaml", "settings:\n  token: file-token\n  orgName: file-org\n")

	cfg, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Settings.Token)
	assert.Equal(t, "env-org", cfg.Settings.OrgName)
}

func TestLoad_INI(t *testing.T) {
	t.Setenv("LATEREPOS_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("LATEREPOS_ORG", "")

	path := writeFile(t, "config.ini", `[settings]
authToken = ini-token
orgName = cs-101
timezone = UTC

[modules]
module = Lab 1
startDate = 2024-01-01
endDate = 2024-01-15
`)

	cfg, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "ini-token", cfg.Settings.Token)
	assert.Equal(t, "cs-101", cfg.Settings.OrgName)
	assert.Equal(t, SourceREST, cfg.Settings.Source)
	require.NoError(t, cfg.Validate())

	modules, err := cfg.LoadModules("", time.UTC, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "Lab 1", modules[0].Name)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), modules[0].Start)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), modules[0].End)
}

func TestLoad_TokenTakesPrecedenceOverAuthToken(t *testing.T) {
	t.Setenv("LATEREPOS_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	path := writeFile(t, "late-repos.yaml", "settings:\n  token: new\n  authToken: old\n")
	cfg, err := Load(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "new", cfg.Settings.Token)

	t.Setenv("LATEREPOS_TOKEN", "env-token")
	ini := writeFile(t, "config.ini", "[settings]\nauthToken = file-token\n")
	cfg, err = Load(ini, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Settings.Token)
}

func TestLoad_DefaultFiles(t *testing.T) {
	t.Setenv("LATEREPOS_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("LATEREPOS_ORG", "")

	t.Run("no default file leaves environment only", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("LATEREPOS_ORG", "env-org")
		cfg, err := Load("", zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "env-org", cfg.Settings.OrgName)
		assert.Empty(t, cfg.Settings.Token)
	})

	t.Run("config.ini is found", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.ini"), []byte("[settings]\nauthToken = ini-token\norgName = ini-org\n"), 0o600))
		t.Chdir(dir)
		cfg, err := Load("", zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "ini-token", cfg.Settings.Token)
		assert.Equal(t, "ini-org", cfg.Settings.OrgName)
	})

	t.Run("late-repos.yaml wins over config.ini", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.ini"), []byte("[settings]\norgName = ini-org\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "late-repos.yaml"), []byte("settings:\n  orgName: yaml-org\n"), 0o600))
		t.Chdir(dir)
		cfg, err := Load("", zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "yaml-org", cfg.Settings.OrgName)
	})
}

func TestIniCodec_Decode(t *testing.T) {
	values := map[string]any{}
	require.NoError(t, iniCodec{}.Decode([]byte("top = 1\n[settings]\norgName = cs-101\n"), values))
	assert.Equal(t, "1", values["top"])
	assert.Equal(t, map[string]any{"orgName": "cs-101"}, values["settings"])

	encoded, err := iniCodec{}.Encode(values)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "[settings]")
	assert.Contains(t, string(encoded), "orgName = cs-101")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), zap.NewNop())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestConfig_Validate(t *testing.T) {
	valid := Settings{Token: "t", OrgName: "o", Source: SourceGraphQL, UpdateField: UpdateFieldUpdated, Timezone: "UTC"}

	testCases := []struct {
		name      string
		mutate    func(s *Settings)
		expectErr error
	}{
		{name: "valid", mutate: func(s *Settings) {}},
		{name: "missing token", mutate: func(s *Settings) { s.Token = " " }, expectErr: ErrMissingToken},
		{name: "missing org", mutate: func(s *Settings) { s.OrgName = "" }, expectErr: ErrMissingOrganization},
		{name: "unknown source", mutate: func(s *Settings) { s.Source = "soap" }, expectErr: ErrUnknownSource},
		{name: "unknown update field", mutate: func(s *Settings) { s.UpdateField = "commit" }, expectErr: ErrUnknownUpdateField},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid
			tc.mutate(&s)
			err := (&Config{Settings: s}).Validate()
			if tc.expectErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expectErr)
			}
		})
	}

	bad := valid
	bad.Timezone = "Mars/Olympus"
	assert.Error(t, (&Config{Settings: bad}).Validate())
}

func TestConfig_LoadModules_SettingsErrors(t *testing.T) {
	_, err := (&Config{}).LoadModules("", time.UTC, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoModules)

	partial := &Config{Modules: ModuleEntry{Module: "Lab 1", StartDate: "2024-01-01"}}
	_, err = partial.LoadModules("", time.UTC, zap.NewNop())
	assert.ErrorIs(t, err, ErrMissingModuleField)

	badDate := &Config{Modules: ModuleEntry{Module: "Lab 1", StartDate: "01/01/2024", EndDate: "2024-01-15"}}
	_, err = badDate.LoadModules("", time.UTC, zap.NewNop())
	assert.ErrorContains(t, err, "invalid start date")
}

func TestLoadDatesFile(t *testing.T) {
	path := writeFile(t, "dates.txt", `Lab 1,01/01/2024,01/15/2024
# comment lines are ignored
Lab 2,01/16/2024

Lab 3, 2/1/2024, 2/14/2024
`)

	core, logs := observer.New(zapcore.WarnLevel)
	modules, err := LoadDatesFile(path, time.UTC, zap.New(core))
	require.NoError(t, err)

	require.Len(t, modules, 2)
	assert.Equal(t, "Lab 1", modules[0].Name)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), modules[0].End)
	assert.Equal(t, "Lab 3", modules[1].Name)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), modules[1].Start)

	warnings := logs.FilterMessage("skipping line with wrong number of fields").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(3), warnings[0].ContextMap()["line"])
}

func TestLoadDatesFile_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*60*60)
	path := writeFile(t, "dates.txt", "Lab 1,01/01/2024,01/15/2024\n")

	modules, err := LoadDatesFile(path, loc, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC), modules[0].End.UTC())
}

func TestLoadDatesFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDatesFile(filepath.Join(t.TempDir(), "dates.txt"), time.UTC, zap.NewNop())
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("only malformed lines", func(t *testing.T) {
		path := writeFile(t, "dates.txt", "Lab 1,01/01/2024\n")
		_, err := LoadDatesFile(path, time.UTC, zap.NewNop())
		assert.ErrorIs(t, err, ErrNoModules)
	})

	t.Run("unparseable date", func(t *testing.T) {
		path := writeFile(t, "dates.txt", "Lab 1,2024-01-01,01/15/2024\n")
		_, err := LoadDatesFile(path, time.UTC, zap.NewNop())
		assert.ErrorContains(t, err, "dates.txt:1")
	})

	t.Run("inverted window is kept with a warning", func(t *testing.T) {
		path := writeFile(t, "dates.txt", "Lab 1,01/15/2024,01/01/2024\n")
		core, logs := observer.New(zapcore.WarnLevel)
		modules, err := LoadDatesFile(path, time.UTC, zap.New(core))
		require.NoError(t, err)
		assert.Len(t, modules, 1)
		assert.Equal(t, 1, logs.FilterMessageSnippet("match nothing").Len())
	})
}

func TestValidateGraceDays(t *testing.T) {
	testCases := []struct {
		name      string
		days      int
		expectErr bool
	}{
		{name: "zero", days: 0},
		{name: "largest representable", days: domain.MaxGraceDays},
		{name: "negative", days: -1, expectErr: true},
		{name: "overflows a duration", days: domain.MaxGraceDays + 1, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGraceDays(tc.days)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidGrace)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
