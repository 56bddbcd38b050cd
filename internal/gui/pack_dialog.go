package gui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/packs"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/simulator"
)

// packLabel is the chooser entry for a pack, e.g. "OP-01  ROMANCE DAWN".
func packLabel(p collection.PackInfo) string {
	if p.Title == "" || p.Title == p.Code {
		return p.Code
	}
	return p.Code + "  " + p.Title
}

// chooseAndOpenPack asks which pack to open, preselecting the series shown in
// the table.
func (a *App) chooseAndOpenPack() {
	var infos []collection.PackInfo
	_ = a.service.View(func(m *collection.Model) { infos = m.Packs() })
	if len(infos) == 0 {
		dialog.ShowInformation("Open Pack", "The catalog has no packs.", a.window)
		return
	}

	labels := make([]string, len(infos))
	byLabel := make(map[string]string, len(infos))
	for i, p := range infos {
		labels[i] = packLabel(p)
		byLabel[labels[i]] = p.Code
	}

	chooser := widget.NewSelect(labels, nil)
	chooser.SetSelectedIndex(0)
	if a.view != nil && a.view.series != collection.AllSeries {
		for i, p := range infos {
			if p.SeriesName == a.view.series {
				chooser.SetSelectedIndex(i)
				break
			}
		}
	}

	dialog.ShowCustomConfirm("Open Pack", "Open", "Cancel", chooser, func(ok bool) {
		if ok && chooser.Selected != "" {
			a.openPack(byLabel[chooser.Selected])
		}
	}, a.window)
}

func (a *App) openPack(code string) {
	session, err := a.service.OpenPack(code)
	switch {
	case errors.Is(err, packs.ErrEmptyPool):
		dialog.ShowInformation("Open Pack", fmt.Sprintf("No cards found for %s.", code), a.window)
		return
	case errors.Is(err, simulator.ErrFlowActive):
		dialog.ShowInformation("Open Pack", "Finish the pack you are opening first.", a.window)
		return
	case err != nil:
		a.ShowErrorDialog("Open Pack Failed", err)
		return
	}

	if session.Pack().Kind == packs.KindFixed {
		a.showFixedPack(session)
	} else {
		a.showRandomPack(session)
	}
}

// showRandomPack shows the pack art first, then reveals one card per click.
// Closing the dialog before the last card cancels the pack.
func (a *App) showRandomPack(session *simulator.PackSession) {
	pack := session.Pack()
	body := container.NewStack()
	hint := widget.NewLabel(fmt.Sprintf("%s: %d cards", pack.Code, len(pack.Cards)))
	hint.Alignment = fyne.TextAlignCenter

	d := dialog.NewCustomWithoutButtons(pack.Code, container.NewBorder(nil, hint, nil, nil, body), a.window)
	d.SetOnClosed(func() { a.cancelPack(session) })

	var reveal func()
	reveal = func() {
		card, ok, err := session.Next()
		if err != nil || !ok {
			a.resolvePack(session, d)
			return
		}
		body.Objects = []fyne.CanvasObject{
			newTappableImage(a.newImage(card.ImageURL, cardSize), func() {
				if session.Remaining() == 0 {
					a.resolvePack(session, d)
					return
				}
				reveal()
			}),
		}
		body.Refresh()
		hint.SetText(revealHint(card, len(pack.Cards)-session.Remaining(), len(pack.Cards)))
	}

	openButton := widget.NewButton("Open Pack", func() {
		d.SetButtons([]fyne.CanvasObject{widget.NewButton("Cancel", d.Hide)})
		reveal()
	})
	openButton.Importance = widget.HighImportance

	body.Objects = []fyne.CanvasObject{a.newImage(a.artURL, cardSize)}
	d.SetButtons([]fyne.CanvasObject{
		widget.NewButton("Cancel", d.Hide),
		openButton,
	})
	d.Show()
}

func revealHint(card *collection.Card, shown, total int) string {
	action := "Click card to reveal next"
	if shown >= total {
		action = "Click card to finish"
	}
	return fmt.Sprintf("%d/%d  %s\n%s", shown, total, card, action)
}

// showFixedPack lays out a fixed product as a grid of cards.
func (a *App) showFixedPack(session *simulator.PackSession) {
	pack := session.Pack()

	grid := container.NewGridWrap(thumbSize)
	for _, card := range pack.Cards {
		grid.Add(newTappableImage(a.newImage(card.ImageURL, thumbSize), func() { a.showCard(card) }))
	}

	title := fmt.Sprintf("%s: %d cards", pack.Code, len(pack.Cards))
	content := container.NewBorder(
		widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(grid),
	)

	d := dialog.NewCustomWithoutButtons(pack.Code, content, a.window)
	d.SetOnClosed(func() { a.cancelPack(session) })

	add := widget.NewButton("Add to Collection", func() { a.resolvePack(session, d) })
	add.Importance = widget.HighImportance
	d.SetButtons([]fyne.CanvasObject{widget.NewButton("Cancel", d.Hide), add})
	d.Resize(fyne.NewSize(820, 620))
	d.Show()
}

// resolvePack adds the pack to the collection and closes its dialog. The
// service may save progress, so the work runs off the UI goroutine.
func (a *App) resolvePack(session *simulator.PackSession, d dialog.Dialog) {
	go func() {
		err := session.Resolve(a.ctx)
		fyne.Do(func() {
			d.Hide()
			if errors.Is(err, packs.ErrFlowFinished) {
				return // double click on the last card
			}
			if err != nil {
				a.ShowErrorDialog("Could Not Add Pack", err)
				return
			}
			if a.view != nil {
				a.view.refresh()
			}
		})
	}()
}

// cancelPack runs whenever a pack dialog closes. A resolved pack is already
// finished, so only unfinished flows change state.
func (a *App) cancelPack(session *simulator.PackSession) {
	if err := session.Cancel(); err != nil && !errors.Is(err, packs.ErrFlowFinished) {
		a.logger.Warn("cancel pack", "error", err)
	}
}

// showCard shows one card at full size.
func (a *App) showCard(card *collection.Card) {
	details := widget.NewLabel(fmt.Sprintf("%s\n%s  Owned: %d", card, card.SeriesName, card.Owned()))
	details.Wrapping = fyne.TextWrapWord
	details.Alignment = fyne.TextAlignCenter

	content := container.NewBorder(nil, details, nil, nil, a.newImage(card.ImageURL, fullSize))
	dialog.ShowCustom(card.Name, "Close", content, a.window)
}
