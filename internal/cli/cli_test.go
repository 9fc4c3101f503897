package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/policywatch/internal/model"
	"github.com/ppiankov/policywatch/internal/pipeline"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	registerDefaults(v)
	v.SetEnvPrefix("POLICYWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	v := newTestViper(t)

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	def := model.DefaultConfig()
	assert.Equal(t, def.Backend.BaseURL, cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 3000, cfg.Widget.InPageLimit)
	assert.Equal(t, 5000, cfg.Widget.PopupLimit)
	assert.True(t, filepath.IsAbs(cfg.Settings.Path), "settings path resolved against home")
	assert.Equal(t, "settings.yaml", filepath.Base(cfg.Settings.Path))
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	v := newTestViper(t)
	t.Setenv("POLICYWATCH_BACKEND_BASE_URL", "https://api.example.org")
	t.Setenv("POLICYWATCH_CONCURRENCY_WORKERS", "9")
	t.Setenv("POLICYWATCH_HTTP_HTTP_PROXY", "http://proxy:3128")

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org", cfg.Backend.BaseURL)
	assert.Equal(t, 9, cfg.Concurrency.Workers)
	assert.Equal(t, "http://proxy:3128", cfg.HTTP.HTTPProxy)
}

func TestLoadConfig_File(t *testing.T) {
	v := newTestViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
backend:
  timeout: 5s
widget:
  auto_dismiss: 3s
history:
  enabled: true
  dir: /var/lib/policywatch
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Widget.AutoDismiss)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/var/lib/policywatch", cfg.History.Dir)
	assert.Equal(t, model.DefaultConfig().Backend.BaseURL, cfg.Backend.BaseURL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := newTestViper(t)
	t.Setenv("POLICYWATCH_BACKEND_BASE_URL", "ftp://files.example")

	_, err := loadConfig(v)
	assert.ErrorIs(t, err, model.ErrInvalidBackendURL)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "", resolvePath("/home/u", ""))
	assert.Equal(t, "/etc/pw", resolvePath("/home/u", "/etc/pw"))
	assert.Equal(t, filepath.Join("/home/u", ".policywatch", "cache"), resolvePath("/home/u", ".policywatch/cache"))
}

func TestParseWatchCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    watchCommand
		wantErr string
	}{
		{line: "", want: watchCommand{}},
		{line: "quit", want: watchCommand{verb: "quit"}},
		{line: "open 1 https://x.test/privacy Privacy Policy", want: watchCommand{verb: "open", tab: 1, arg: "https://x.test/privacy", rest: "Privacy Policy"}},
		{line: "OPEN 2 https://x.test", want: watchCommand{verb: "open", tab: 2, arg: "https://x.test"}},
		{line: "menu 3", want: watchCommand{verb: "menu", tab: 3}},
		{line: "menu 3 https://x.test/terms", want: watchCommand{verb: "menu", tab: 3, arg: "https://x.test/terms"}},
		{line: "ask 4 Do they sell   my data?", want: watchCommand{verb: "ask", tab: 4, rest: "Do they sell my data?"}},
		{line: "analyze 5", want: watchCommand{verb: "analyze", tab: 5}},
		{line: "fly 1", wantErr: "unknown command"},
		{line: "open", wantErr: "missing tab id"},
		{line: "open x https://x.test", wantErr: "invalid tab id"},
		{line: "open 1", wantErr: "missing url"},
		{line: "ask 1", wantErr: "missing question"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseWatchCommand(tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReportView(t *testing.T) {
	report := &pipeline.Report{
		FinalURL: "https://www.tiktok.com/legal/privacy",
		Platform: model.PlatformTikTok,
		Result: model.AnalysisResult{
			Score:          20,
			HarmfulPoints:  "Collects biometric data",
			Recommendation: "Limit permissions",
			Source:         model.SourceRemote,
		},
	}

	text := reportView(report, "http://localhost:8501")
	assert.Contains(t, text, "TikTok privacy analysis")
	assert.Contains(t, text, "20/100 (High Risk)")
	assert.NotContains(t, text, "[estimate]")
	assert.Contains(t, text, "http://localhost:8501/?url=https%3A%2F%2Fwww.tiktok.com%2Flegal%2Fprivacy")
}
