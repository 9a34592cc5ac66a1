package splash

import (
	"time"

	"github.com/plus3/splash/ecs"
	"github.com/plus3/splash/tween"
	"github.com/plus3/splash/ui"
)

// holdDuration is how long every brand stays hidden before its screen's
// start delay begins.
const holdDuration = time.Second

// startDelay returns how long screen i waits after the initial hold. It is
// driven by the Wait of the screen before it.
func startDelay(list []Screen, i int) time.Duration {
	if i == 0 {
		return time.Second
	}
	prev := list[i-1]
	if d, ok := prev.Wait.Duration(); ok {
		return d
	}

	longest := time.Second
	if len(prev.Brands) > 0 {
		longest = 0
		for _, brand := range prev.Brands {
			longest = max(longest, brand.Duration)
		}
	}
	return longest*2*time.Duration(i) + time.Second
}

// createSystem spawns the background and one container per screen.
type createSystem struct {
	Screens ecs.Singleton[screens]
}

func (s *createSystem) Execute(frame *ecs.UpdateFrame) {
	list := s.Screens.Get().list
	if len(list) == 0 {
		return
	}

	bg := background{
		expected: make([]uint64, len(list)),
		colors:   make([]ui.Color, len(list)),
	}
	for i, screen := range list {
		bg.expected[i] = uint64(len(screen.Brands)) * 2
		bg.colors[i] = screen.Background
	}
	frame.Commands.Spawn(
		ui.Node{Style: fullWindow()},
		ui.BackgroundColor{Color: list[0].Background},
		ClearSplash{},
		bg,
	)

	for i, screen := range list {
		style := fullWindow()
		style.Justify = ui.JustifyCenter
		style.Align = ui.AlignCenter
		if screen.Type == Grid {
			style.Direction = ui.Row
			style.Wrap = ui.Wrap
		} else {
			style.Direction = ui.Column
			style.Wrap = ui.NoWrap
		}

		delay := startDelay(list, i)
		brands := make([][]any, 0, len(screen.Brands))
		for j, brand := range screen.Brands {
			brands = append(brands, brandComponents(brand, style, j, i, delay))
		}
		frame.Commands.SpawnTree(
			[]any{ui.Node{Style: style, Order: i + 1}, ClearSplash{}},
			brands...,
		)
	}
}

func fullWindow() ui.Style {
	return ui.Style{
		Position: ui.Absolute,
		Width:    ui.Percent(100),
		Height:   ui.Percent(100),
	}
}

func brandComponents(brand Item, parent ui.Style, order, screen int, delay time.Duration) []any {
	hidden := brand.Tint.WithAlpha(0)
	node := ui.Node{
		Style: ui.Style{
			Width:     brand.Width,
			Height:    brand.Height,
			Direction: parent.Direction,
			Wrap:      parent.Wrap,
		},
		Order: order,
	}

	switch asset := brand.Asset.(type) {
	case TextAsset:
		return []any{
			node,
			brandText(asset, hidden),
			tween.NewAnimator(brandAnimation(brand, screen, delay, func(start, end ui.Color) tween.Lens[ui.Text] {
				return TextColorLens{Start: start, End: end}
			})),
		}
	case ImageAsset:
		return []any{
			node,
			ui.Image{Path: asset.Path},
			ui.BackgroundColor{Color: hidden},
			tween.NewAnimator(brandAnimation(brand, screen, delay, imageLens)),
		}
	default:
		return []any{
			node,
			ui.BackgroundColor{Color: hidden},
			tween.NewAnimator(brandAnimation(brand, screen, delay, imageLens)),
		}
	}
}

func imageLens(start, end ui.Color) tween.Lens[ui.BackgroundColor] {
	return ImageColorLens{Start: start, End: end}
}

// brandText copies the configured text so animating it never touches the
// caller's sections.
func brandText(asset TextAsset, color ui.Color) ui.Text {
	text := ui.Text{
		Sections: make([]ui.TextSection, len(asset.Text.Sections)),
		Justify:  asset.Text.Justify,
	}
	for i, section := range asset.Text.Sections {
		if section.Style.Font == "" {
			section.Style.Font = asset.Font
		}
		section.Style.Color = color
		text.Sections[i] = section
	}
	return text
}

// brandAnimation builds hold → delay → fade in and out. The fade raises one
// completion event per direction, tagged with the screen index.
func brandAnimation[T any](brand Item, screen int, delay time.Duration, lens func(start, end ui.Color) tween.Lens[T]) tween.Tweenable[T] {
	hidden := brand.Tint.WithAlpha(0)
	from := hidden
	if brand.Static {
		from = brand.Tint
	}

	show := tween.New(brand.Ease, brand.Duration, lens(from, brand.Tint)).
		WithRepeatStrategy(tween.MirroredRepeat).
		WithRepeatCount(tween.Finite(2)).
		WithCompletedEvent(uint64(screen))

	seq := tween.New(brand.Ease, holdDuration, lens(hidden, hidden)).
		Then(tween.NewDelay[T](delay)).
		Then(show)
	if brand.Static {
		seq = seq.Then(tween.New(brand.Ease, 0, lens(hidden, hidden)))
	}
	return seq
}
