package gui

import (
	"errors"
	"io/fs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/catalog"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/progress"
)

// ErrorView creates a user-friendly error display with an optional retry.
func (a *App) ErrorView(title string, err error, retry func()) fyne.CanvasObject {
	titleLabel := widget.NewLabelWithStyle("⚠️  "+title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	errorLabel := widget.NewLabel(translateError(err))
	errorLabel.Wrapping = fyne.TextWrapWord

	guidance := widget.NewRichTextFromMarkdown(guidanceFor(err))

	var buttons []fyne.CanvasObject
	if retry != nil {
		buttons = append(buttons, widget.NewButton("Retry", retry))
	}
	buttons = append(buttons, widget.NewButton("Quit", a.window.Close))

	return container.NewCenter(
		container.NewVBox(
			titleLabel,
			widget.NewSeparator(),
			errorLabel,
			widget.NewSeparator(),
			guidance,
			widget.NewSeparator(),
			container.NewHBox(buttons...),
		),
	)
}

// ShowErrorDialog displays an error dialog.
func (a *App) ShowErrorDialog(title string, err error) {
	a.logger.Error(title, "error", err)
	dialog.ShowError(errors.New(translateError(err)), a.window)
}

// translateError converts errors to user-facing text.
func translateError(err error) string {
	switch {
	case err == nil:
		return "Something went wrong, but no specific error was reported."
	case errors.Is(err, progress.ErrProgressCorrupt):
		return "Your saved collection file could not be read. It has been left untouched."
	case errors.Is(err, catalog.ErrCatalogUnavailable) && errors.Is(err, fs.ErrNotExist):
		return "The card catalog file could not be found."
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return "The card catalog could not be read. The file may be incomplete or not valid XML."
	case errors.Is(err, fs.ErrPermission):
		return "Permission was denied when trying to access a file."
	}

	msg := err.Error()
	if len(msg) > 100 {
		msg = msg[:97] + "..."
	}
	return "An error occurred: " + msg
}

// guidanceFor returns markdown with next steps for err.
func guidanceFor(err error) string {
	switch {
	case errors.Is(err, progress.ErrProgressCorrupt):
		return `### How to Fix This:

1. Open **collection_progress.json** and repair it, or move it aside to start fresh
2. Click **Retry**`
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return `### How to Fix This:

1. Check **catalog.path** in your config file, or start with **--catalog**
2. Make sure the file is the complete card export
3. Click **Retry**`
	}
	return `### What You Can Do:

1. Click **Retry** to try again
2. Restart the application if the problem persists`
}
