package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// setupKeyboardShortcuts configures keyboard shortcuts for the main view.
func (a *App) setupKeyboardShortcuts() {
	if a.window == nil {
		return
	}
	canvas := a.window.Canvas()

	// Open pack: Ctrl/Cmd + O
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyO,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		a.chooseAndOpenPack()
	})

	// Save progress: Ctrl/Cmd + S
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyS,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		go func() {
			if err := a.service.Save(a.ctx); err != nil {
				fyne.Do(func() { a.ShowErrorDialog("Save Failed", err) })
			}
		}()
	})

	// Toggle missing only: Ctrl/Cmd + M
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyM,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		if a.view != nil {
			a.view.missingCheck.SetChecked(!a.view.missingCheck.Checked)
		}
	})
}
