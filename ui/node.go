package ui

// PositionType selects whether a node takes part in its parent's flex flow.
type PositionType int

const (
	Relative PositionType = iota
	Absolute
)

type FlexDirection int

const (
	Row FlexDirection = iota
	Column
)

type FlexWrap int

const (
	NoWrap FlexWrap = iota
	Wrap
)

type JustifyContent int

const (
	JustifyStart JustifyContent = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

type AlignItems int

const (
	AlignStart AlignItems = iota
	AlignEnd
	AlignCenter
	AlignStretch
)

// Style describes how a node is sized and how it lays out its children.
type Style struct {
	Position PositionType
	Left     Val
	Top      Val
	Width    Val
	Height   Val

	Direction FlexDirection
	Wrap      FlexWrap
	Justify   JustifyContent
	Align     AlignItems
	Gap       float64
}

// Rect is a computed screen-space rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Node marks an entity as part of the UI tree. Rect is written by the layout
// system every frame.
type Node struct {
	Style  Style
	Order  int
	ZIndex int
	Hidden bool
	Rect   Rect
}

// BackgroundColor fills a node, or tints it when the node carries an Image.
type BackgroundColor struct {
	Color Color
}

type TextJustify int

const (
	TextLeft TextJustify = iota
	TextCenter
	TextRight
)

// TextStyle selects a font file, pixel size and colour. An empty Font uses
// the built-in face.
type TextStyle struct {
	Font  string
	Size  float64
	Color Color
}

// TextSection is a run of text with a single style.
type TextSection struct {
	Value string
	Style TextStyle
}

// Text renders its sections one after another. A newline inside a value
// starts a new line.
type Text struct {
	Sections []TextSection
	Justify  TextJustify
}

// NewText returns a single-section text.
func NewText(value string, style TextStyle) Text {
	return Text{Sections: []TextSection{{Value: value, Style: style}}}
}

// Image draws a picture loaded from the asset filesystem, stretched to the
// node's rect.
type Image struct {
	Path  string
	FlipX bool
	FlipY bool
}

// Window mirrors the logical size of the game window.
type Window struct {
	Width  float64
	Height float64
}

// ClearColor is the colour the screen is cleared to each frame.
type ClearColor struct {
	Color Color
}
