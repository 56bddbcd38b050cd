package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LoadingView creates a centered loading view with a message.
func (a *App) LoadingView(message string) fyne.CanvasObject {
	label := widget.NewLabel(message)
	label.Alignment = fyne.TextAlignCenter

	return container.NewCenter(
		container.NewVBox(
			container.NewPadded(widget.NewProgressBarInfinite()),
			container.NewPadded(label),
		),
	)
}
