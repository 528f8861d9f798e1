package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

type overlayButton struct {
	label string
	click func()
}

// overlay is a centered panel with a title line and a row of buttons, drawn
// over the arena while the simulation is paused or the encounter is over.
type overlay struct {
	ui    *ebitenui.UI
	title *widget.Text
}

// NewPauseUI builds the pause menu: Resume unpauses the simulation and Quit
// closes the game.
func NewPauseUI(g *Game, width, height int) *overlay {
	return newOverlay("Paused", width, height,
		overlayButton{label: "Resume", click: func() { g.sess.Sim.SetPaused(false) }},
		overlayButton{label: "Quit", click: func() { g.quit = true }},
	)
}

// NewEndUI builds the panel shown once the player is defeated or the last
// wave is cleared. Its title is set by the caller.
func NewEndUI(g *Game, width, height int) *overlay {
	return newOverlay("", width, height,
		overlayButton{label: "Restart", click: g.requestRestart},
		overlayButton{label: "Quit", click: func() { g.quit = true }},
	)
}

// newOverlay uses colored nine-slices and the built-in basic font so it needs
// no theme assets.
func newOverlay(title string, width, height int, buttons ...overlayButton) *overlay {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	btnPressed := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	titleText := widget.NewText(
		widget.TextOpts.Text(title, &face, white),
		widget.TextOpts.WidgetOpts(center),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width/2, height/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(titleText)

	for _, b := range buttons {
		click := b.click
		panel.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnPressed}),
			widget.ButtonOpts.Text(b.label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				click()
			}),
		))
	}

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)

	return &overlay{ui: &ebitenui.UI{Container: root}, title: titleText}
}

func (o *overlay) SetTitle(title string) {
	if o.title.Label != title {
		o.title.Label = title
	}
}

func (o *overlay) Update() { o.ui.Update() }

func (o *overlay) Draw(screen *ebiten.Image) { o.ui.Draw(screen) }
