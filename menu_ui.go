package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

var (
	menuText   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	menuButton = color.NRGBA{R: 0x33, G: 0x33, B: 0x44, A: 0xff}
	menuHover  = color.NRGBA{R: 0x4a, G: 0x4a, B: 0x66, A: 0xff}
	menuPanel  = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xc8}
)

// newMenuUI builds a centred title panel with Play and Quit buttons. The
// built-in basic font keeps it free of font assets.
func newMenuUI(title string, onPlay, onQuit func()) *ebitenui.UI {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

	btnImg := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(menuButton),
		Hover:   imageui.NewNineSliceColor(menuHover),
		Pressed: imageui.NewNineSliceColor(menuHover),
	}
	btnText := &widget.ButtonTextColor{Idle: menuText}
	centred := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	button := func(label string, click func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(btnImg),
			widget.ButtonOpts.Text(label, &face, btnText),
			widget.ButtonOpts.WidgetOpts(centred),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				if click != nil {
					click()
				}
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(menuPanel)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(12),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 24, Bottom: 24, Left: 40, Right: 40}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text(title, &face, menuText),
		widget.TextOpts.WidgetOpts(centred),
	))
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text("WASD to move, Space to cast, Esc to leave", &face, menuText),
		widget.TextOpts.WidgetOpts(centred),
	))
	panel.AddChild(button("Play", onPlay))
	panel.AddChild(button("Quit", onQuit))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}
