package gui

import (
	"path"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

var (
	thumbSize = fyne.NewSize(120, 168)
	cardSize  = fyne.NewSize(300, 420)
	fullSize  = fyne.NewSize(430, 600)
)

// newImage returns an empty image that fills in once ref has been fetched.
func (a *App) newImage(ref string, size fyne.Size) *canvas.Image {
	img := canvas.NewImageFromResource(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(size)
	a.setImage(img, ref)
	return img
}

// setImage swaps the picture shown by img. Fetching happens off the UI
// goroutine through the image cache.
func (a *App) setImage(img *canvas.Image, ref string) {
	img.Resource = nil
	img.Refresh()
	if ref == "" || a.images == nil {
		return
	}

	go func() {
		data, err := a.images.Get(a.ctx, ref)
		if err != nil {
			a.logger.Warn("image unavailable", "ref", ref, "error", err)
			return
		}
		fyne.Do(func() {
			img.Resource = fyne.NewStaticResource(path.Base(ref), data)
			img.Refresh()
		})
	}()
}

// tappableImage is an image that reacts to clicks.
type tappableImage struct {
	widget.BaseWidget
	image    *canvas.Image
	OnTapped func()
}

func newTappableImage(img *canvas.Image, tapped func()) *tappableImage {
	t := &tappableImage{image: img, OnTapped: tapped}
	t.ExtendBaseWidget(t)
	return t
}

func (t *tappableImage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.image)
}

func (t *tappableImage) Tapped(*fyne.PointEvent) {
	if t.OnTapped != nil {
		t.OnTapped()
	}
}
