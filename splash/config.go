package splash

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/plus3/splash/tween"
	"github.com/plus3/splash/ui"
	"gopkg.in/yaml.v3"
)

// Config is the YAML form of a splash.
//
//	skipable: true
//	screens:
//	  - type: grid
//	    wait: after_end
//	    background: "#000000"
//	    brands:
//	      - text: "Studio\npresents"
//	        font: FiraSans-Bold.ttf
//	        size: 48
//	        justify: center
//	        tint: white
//	        width: 40%
//	        height: 80px
//	        ease: quartic_in_out
//	        duration: 5s
type Config struct {
	Skipable            bool `yaml:"skipable"`
	IgnoreDefaultEvents bool `yaml:"ignore_default_events"`
	// ShowOnce, when set, is the application name under which a SeenStore
	// records that the splash was shown.
	ShowOnce string         `yaml:"show_once,omitempty"`
	Screens  []ScreenConfig `yaml:"screens"`
}

type ScreenConfig struct {
	Type       string       `yaml:"type,omitempty"`
	Wait       string       `yaml:"wait,omitempty"`
	Background ui.Color     `yaml:"background"`
	Brands     []ItemConfig `yaml:"brands"`
}

// ItemConfig describes one brand. Exactly one of Text, Sections or Image
// should be set; none gives a plain colour block.
type ItemConfig struct {
	Text     string          `yaml:"text,omitempty"`
	Sections []SectionConfig `yaml:"sections,omitempty"`
	Font     string          `yaml:"font,omitempty"`
	Size     float64         `yaml:"size,omitempty"`
	Justify  string          `yaml:"justify,omitempty"`
	Image    string          `yaml:"image,omitempty"`

	Tint     *ui.Color     `yaml:"tint,omitempty"`
	Width    ui.Val        `yaml:"width,omitempty"`
	Height   ui.Val        `yaml:"height,omitempty"`
	Ease     string        `yaml:"ease,omitempty"`
	Duration time.Duration `yaml:"duration"`
	Static   bool          `yaml:"static,omitempty"`
}

type SectionConfig struct {
	Value string    `yaml:"value"`
	Font  string    `yaml:"font,omitempty"`
	Size  float64   `yaml:"size,omitempty"`
	Color *ui.Color `yaml:"color,omitempty"`
}

var (
	ErrNoScreens       = errors.New("no screens configured")
	ErrInvalidDuration = errors.New("brand duration must be positive")
	ErrAmbiguousAsset  = errors.New("brand sets both text and image")
)

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read splash config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates YAML. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse splash config: %w", err)
	}
	if _, err := cfg.ToScreens(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ToScreens converts the config into screens.
func (c *Config) ToScreens() ([]Screen, error) {
	if len(c.Screens) == 0 {
		return nil, ErrNoScreens
	}

	list := make([]Screen, 0, len(c.Screens))
	for i, sc := range c.Screens {
		screen, err := sc.toScreen()
		if err != nil {
			return nil, fmt.Errorf("screen %d: %w", i, err)
		}
		list = append(list, screen)
	}
	return list, nil
}

func (sc ScreenConfig) toScreen() (Screen, error) {
	screen := Screen{Background: sc.Background}

	switch strings.ToLower(sc.Type) {
	case "", "list":
		screen.Type = List
	case "grid":
		screen.Type = Grid
	default:
		return Screen{}, fmt.Errorf("unknown screen type %q", sc.Type)
	}

	switch strings.ToLower(sc.Wait) {
	case "", "after_end":
		screen.Wait = AfterEnd
	default:
		d, err := time.ParseDuration(sc.Wait)
		if err != nil {
			return Screen{}, fmt.Errorf("invalid wait %q: %w", sc.Wait, err)
		}
		screen.Wait = Specific(d)
	}

	for j, ic := range sc.Brands {
		item, err := ic.toItem()
		if err != nil {
			return Screen{}, fmt.Errorf("brand %d: %w", j, err)
		}
		screen.Brands = append(screen.Brands, item)
	}
	return screen, nil
}

func (ic ItemConfig) toItem() (Item, error) {
	if ic.Duration <= 0 {
		return Item{}, ErrInvalidDuration
	}
	ease, err := tween.ParseEase(ic.Ease)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		Tint:     ui.White,
		Width:    ic.Width,
		Height:   ic.Height,
		Ease:     ease,
		Duration: ic.Duration,
		Static:   ic.Static,
	}
	if ic.Tint != nil {
		item.Tint = *ic.Tint
	}

	hasText := ic.Text != "" || len(ic.Sections) > 0
	switch {
	case hasText && ic.Image != "":
		return Item{}, ErrAmbiguousAsset
	case ic.Image != "":
		item.Asset = ImageAsset{Path: ic.Image}
	case hasText:
		text, err := ic.text()
		if err != nil {
			return Item{}, err
		}
		item.Asset = TextAsset{Text: text, Font: ic.Font}
	}
	return item, nil
}

func (ic ItemConfig) text() (ui.Text, error) {
	var text ui.Text
	switch strings.ToLower(ic.Justify) {
	case "", "left":
		text.Justify = ui.TextLeft
	case "center", "centre":
		text.Justify = ui.TextCenter
	case "right":
		text.Justify = ui.TextRight
	default:
		return ui.Text{}, fmt.Errorf("unknown justify %q", ic.Justify)
	}

	if ic.Text != "" {
		text.Sections = append(text.Sections, ui.TextSection{
			Value: ic.Text,
			Style: ui.TextStyle{Size: ic.Size},
		})
	}
	for _, sec := range ic.Sections {
		style := ui.TextStyle{Font: sec.Font, Size: sec.Size}
		if style.Size == 0 {
			style.Size = ic.Size
		}
		if sec.Color != nil {
			style.Color = *sec.Color
		}
		text.Sections = append(text.Sections, ui.TextSection{Value: sec.Value, Style: style})
	}
	return text, nil
}

// Apply copies the config's screens and flags onto p.
func Apply[S comparable](cfg *Config, p *Plugin[S]) error {
	list, err := cfg.ToScreens()
	if err != nil {
		return err
	}
	for _, screen := range list {
		p.AddScreen(screen)
	}
	if cfg.Skipable {
		p.Skipable()
	}
	if cfg.IgnoreDefaultEvents {
		p.IgnoreDefaultEvents()
	}
	return nil
}
