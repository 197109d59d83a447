package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/tempreach/internal/config"
)

const minimal = `
version: v1
input:
  movements: movements.csv
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tempreach.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, ",", cfg.Input.Comma)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	require.Len(t, cfg.Reports, 1)
	assert.Equal(t, "summary", cfg.Reports[0].Type)
	assert.NoError(t, config.Validate(cfg))
}

func TestParse_Full(t *testing.T) {
	cfg, err := config.Parse([]byte(`
version: v1
input:
  movements: m.tsv
  locations: loc.tsv
  comma: "\t"
  header: true
filter: day >= 3
analysis:
  seed: "5"
  seed_time: 2
  degrees: true
  windows: true
reports:
  - type: json
    path: out.json
    params:
      indent: true
log:
  level: debug
  format: json
`))
	require.NoError(t, err)
	assert.Equal(t, "\t", cfg.Input.Comma)
	assert.True(t, cfg.Input.Header)
	assert.Equal(t, "5", cfg.Analysis.Seed)
	assert.Equal(t, 2, cfg.Analysis.SeedTime)
	assert.True(t, cfg.Analysis.Degrees)
	assert.False(t, cfg.Analysis.Compare)
	require.Len(t, cfg.Reports, 1)
	assert.Equal(t, true, cfg.Reports[0].Params["indent"])
	assert.NoError(t, config.Validate(cfg))
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"missing version": {
			body: "input:\n  movements: m.csv\n",
			want: "Version: is required",
		},
		"missing movements": {
			body: "version: v1\n",
			want: "Input.Movements: is required",
		},
		"bad level": {
			body: minimal + "log:\n  level: loud\n",
			want: "Log.Level: must be one of",
		},
		"negative seed time": {
			body: minimal + "analysis:\n  seed_time: -1\n",
			want: "Analysis.SeedTime: must be >= 0",
		},
		"long comma": {
			body: "version: v1\ninput:\n  movements: m.csv\n  comma: ';;'\n",
			want: "Input.Comma: must be exactly 1",
		},
		"bad filter": {
			body: minimal + "filter: weight > 3\n",
			want: "unknown field",
		},
		"report without type": {
			body: minimal + "reports:\n  - path: a.json\n",
			want: "Reports[0].Type: is required",
		},
		"duplicate report path": {
			body: minimal + "reports:\n  - type: json\n    path: a.json\n  - type: summary\n    path: a.json\n",
			want: `reports[1]: path "a.json" already used by reports[0]`,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tc.body))
			require.NoError(t, err)
			err = config.Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoader_ResolvesRelativePaths(t *testing.T) {
	path := writeConfig(t, minimal+"reports:\n  - type: json\n    path: out/r.json\nmetrics:\n  textfile: /abs/t.prom\n")
	l, err := config.NewLoader(path, nil)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	cfg := l.Config()
	assert.Equal(t, filepath.Join(dir, "movements.csv"), cfg.Input.Movements)
	assert.Equal(t, "", cfg.Input.Locations)
	assert.Equal(t, filepath.Join(dir, "out", "r.json"), cfg.Reports[0].Path)
	assert.Equal(t, "/abs/t.prom", cfg.Metrics.Textfile)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := config.NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoader_ReloadNotifies(t *testing.T) {
	path := writeConfig(t, minimal)
	l, err := config.NewLoader(path, nil)
	require.NoError(t, err)

	var got *config.AnalysisConfig
	l.OnChange(func(c *config.AnalysisConfig) { got = c })

	require.NoError(t, os.WriteFile(path, []byte(minimal+"filter: day > 2\n"), 0o644))
	cfg, err := l.Reload()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Same(t, cfg, got)
	assert.Equal(t, "day > 2", l.Config().Filter)
}

func TestLoader_ReloadKeepsPreviousOnError(t *testing.T) {
	path := writeConfig(t, minimal)
	l, err := config.NewLoader(path, nil)
	require.NoError(t, err)
	before := l.Config()

	require.NoError(t, os.WriteFile(path, []byte("version: [unclosed"), 0o644))
	_, err = l.Reload()
	require.Error(t, err)
	assert.Same(t, before, l.Config())
}
