package splash

import "github.com/plus3/splash/ui"

// TextColorLens fades every section of a Text between two colours.
type TextColorLens struct {
	Start ui.Color
	End   ui.Color
}

// Lerp sets the colour of every section of target.
func (l TextColorLens) Lerp(target *ui.Text, ratio float64) {
	value := l.Start.Lerp(l.End, ratio)
	for i := range target.Sections {
		target.Sections[i].Style.Color = value
	}
}

// ImageColorLens fades the BackgroundColor tint of an image node.
type ImageColorLens struct {
	Start ui.Color
	End   ui.Color
}

// Lerp sets the tint of target.
func (l ImageColorLens) Lerp(target *ui.BackgroundColor, ratio float64) {
	target.Color = l.Start.Lerp(l.End, ratio)
}
