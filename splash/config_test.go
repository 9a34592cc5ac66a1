package splash_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/splash/splash"
	"github.com/plus3/splash/tween"
	"github.com/plus3/splash/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
skipable: true
ignore_default_events: true
screens:
  - background: black
    brands:
      - sections:
          - value: "Studio\n"
            size: 76
          - value: presents
            size: 38
            color: "#ff0000"
        font: FiraSans-Bold.ttf
        justify: center
        width: 40%
        height: 80px
        ease: quartic_in_out
        duration: 5s
  - type: grid
    wait: 2s
    background: "#ffffff"
    brands:
      - image: logo.png
        tint: "#00ff00"
        width: 64
        height: 64
        duration: 1500ms
        static: true
      - duration: 1s
`

func TestParseConfig(t *testing.T) {
	cfg, err := splash.ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)
	assert.True(t, cfg.Skipable)
	assert.True(t, cfg.IgnoreDefaultEvents)

	screens, err := cfg.ToScreens()
	require.NoError(t, err)
	require.Len(t, screens, 2)

	first := screens[0]
	assert.Equal(t, splash.List, first.Type)
	assert.Equal(t, splash.AfterEnd, first.Wait)
	assert.Equal(t, ui.Black, first.Background)
	require.Len(t, first.Brands, 1)

	brand := first.Brands[0]
	assert.Equal(t, ui.White, brand.Tint)
	assert.Equal(t, ui.Percent(40), brand.Width)
	assert.Equal(t, ui.Px(80), brand.Height)
	assert.Equal(t, tween.QuarticInOut, brand.Ease)
	assert.Equal(t, 5*time.Second, brand.Duration)

	text, ok := brand.Asset.(splash.TextAsset)
	require.True(t, ok)
	assert.Equal(t, "FiraSans-Bold.ttf", text.Font)
	assert.Equal(t, ui.TextCenter, text.Text.Justify)
	require.Len(t, text.Text.Sections, 2)
	assert.Equal(t, "Studio\n", text.Text.Sections[0].Value)
	assert.Equal(t, 76.0, text.Text.Sections[0].Style.Size)
	assert.Equal(t, ui.RGB(1, 0, 0), text.Text.Sections[1].Style.Color)

	second := screens[1]
	assert.Equal(t, splash.Grid, second.Type)
	assert.Equal(t, splash.Specific(2*time.Second), second.Wait)
	require.Len(t, second.Brands, 2)
	assert.Equal(t, splash.ImageAsset{Path: "logo.png"}, second.Brands[0].Asset)
	assert.Equal(t, ui.RGB(0, 1, 0), second.Brands[0].Tint)
	assert.Equal(t, ui.Px(64), second.Brands[0].Width)
	assert.Equal(t, 1500*time.Millisecond, second.Brands[0].Duration)
	assert.True(t, second.Brands[0].Static)
	assert.Nil(t, second.Brands[1].Asset, "no asset gives a colour block")
}

func TestParseConfigErrors(t *testing.T) {
	tests := map[string]struct {
		yaml string
		err  error
	}{
		"no screens":     {yaml: "skipable: true\n", err: splash.ErrNoScreens},
		"zero duration":  {yaml: "screens:\n  - brands:\n      - text: hi\n", err: splash.ErrInvalidDuration},
		"bad ease":       {yaml: "screens:\n  - brands:\n      - text: hi\n        duration: 1s\n        ease: wobble\n", err: tween.ErrUnknownEase},
		"text and image": {yaml: "screens:\n  - brands:\n      - text: hi\n        image: a.png\n        duration: 1s\n", err: splash.ErrAmbiguousAsset},
		"bad colour":     {yaml: "screens:\n  - background: nope\n", err: ui.ErrInvalidColor},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := splash.ParseConfig([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := splash.ParseConfig([]byte("screens:\n  - typo: 1\n"))
	assert.Error(t, err, "unknown keys are rejected")
	_, err = splash.ParseConfig([]byte("screens:\n  - type: spiral\n"))
	assert.Error(t, err)
}

func TestLoadConfigAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := splash.LoadConfig(path)
	require.NoError(t, err)

	plugin := splash.New(stateSplash, stateMenu)
	require.NoError(t, splash.Apply(cfg, plugin))
	assert.Len(t, plugin.Screens(), 2)

	_, err = splash.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfiguredSplashRuns(t *testing.T) {
	cfg, err := splash.ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	plugin := splash.New(stateSplash, stateMenu)
	require.NoError(t, splash.Apply(cfg, plugin))
	app := newSplashApp(t, plugin)

	app.Update(0)
	splash.Skip(app.Storage())
	app.Update(step)
	assert.Zero(t, countClearSplash(app))
}

func TestExampleConfig(t *testing.T) {
	cfg, err := splash.LoadConfig(filepath.Join("..", "examples", "assets", "splash.yaml"))
	require.NoError(t, err)

	screens, err := cfg.ToScreens()
	require.NoError(t, err)
	require.Len(t, screens, 2)
	assert.Equal(t, splash.List, screens[0].Type)
	assert.Equal(t, splash.Grid, screens[1].Type)
	assert.Equal(t, splash.ImageAsset{Path: "logo.png"}, screens[1].Brands[0].Asset)

	text, ok := screens[0].Brands[0].Asset.(splash.TextAsset)
	require.True(t, ok)
	assert.Len(t, text.Text.Sections, 2)
	assert.Equal(t, ui.TextCenter, text.Text.Justify)
}
