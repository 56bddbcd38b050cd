package gui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
)

// column is one table column.
type column struct {
	title string
	width float32
	value func(*collection.Card) string
}

var columns = []column{
	{"ID", 110, func(c *collection.Card) string { return c.ID }},
	{"Name", 220, func(c *collection.Card) string { return c.Name }},
	{"Rarity", 70, func(c *collection.Card) string { return c.Rarity }},
	{"Type", 100, func(c *collection.Card) string { return c.Type }},
	{"Color", 90, func(c *collection.Card) string { return c.Color }},
	{"Power", 70, func(c *collection.Card) string { return number(c.Power) }},
	{"Counter", 70, func(c *collection.Card) string { return number(c.Counter) }},
	{"Owned", 70, func(c *collection.Card) string { return strconv.Itoa(c.Owned()) }},
	{"Series", 240, func(c *collection.Card) string { return c.SeriesName }},
}

// number renders zero as blank; leaders and events have no power or counter.
func number(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// collectionView is the main window: filters on top, the card table below.
type collectionView struct {
	app *App

	series      string
	onlyMissing bool
	rows        []*collection.Card

	table        *widget.Table
	seriesSelect *widget.Select
	missingCheck *widget.Check
	status       *widget.Label
}

func newCollectionView(a *App) *collectionView {
	v := &collectionView{app: a, series: collection.AllSeries}

	v.table = widget.NewTable(
		func() (int, int) { return len(v.rows), len(columns) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row < 0 || id.Row >= len(v.rows) {
				label.SetText("")
				return
			}
			label.SetText(columns[id.Col].value(v.rows[id.Row]))
		},
	)
	v.table.ShowHeaderRow = true
	v.table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	}
	v.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		if id.Col >= 0 && id.Col < len(columns) {
			o.(*widget.Label).SetText(columns[id.Col].title)
		}
	}
	for i, c := range columns {
		v.table.SetColumnWidth(i, c.width)
	}
	v.table.OnSelected = func(id widget.TableCellID) {
		if id.Row >= 0 && id.Row < len(v.rows) {
			a.showCard(v.rows[id.Row])
		}
		v.table.UnselectAll()
	}

	v.seriesSelect = widget.NewSelect(nil, func(name string) {
		if name == v.series {
			return
		}
		v.series = name
		v.refresh()
	})

	v.missingCheck = widget.NewCheck("Missing only", func(checked bool) {
		v.onlyMissing = checked
		v.refresh()
	})

	v.status = widget.NewLabel("")

	return v
}

func (v *collectionView) content() fyne.CanvasObject {
	toolbar := container.NewHBox(
		widget.NewLabel("Series:"),
		v.seriesSelect,
		v.missingCheck,
		widget.NewButton("Reset Series", v.confirmReset),
		widget.NewButton("Open Pack", v.app.chooseAndOpenPack),
		widget.NewButton("Completion", v.app.showCompletion),
	)
	return container.NewBorder(toolbar, v.status, nil, nil, v.table)
}

// refresh re-queries the service after any change to the collection.
func (v *collectionView) refresh() {
	var names []string
	_ = v.app.service.View(func(m *collection.Model) { names = m.SeriesNames() })

	if !slices.Contains(names, v.series) {
		v.series = collection.AllSeries
	}
	v.seriesSelect.Options = names
	v.seriesSelect.Selected = v.series
	v.seriesSelect.Refresh()

	rows, err := v.app.service.Query(v.series, v.onlyMissing)
	if err != nil {
		v.app.logger.Error("query collection", "error", err)
		rows = nil
	}
	v.rows = rows
	v.table.Refresh()
	v.status.SetText(statusText(len(rows), v.series, v.onlyMissing))
}

func statusText(n int, series string, onlyMissing bool) string {
	what := "cards"
	if n == 1 {
		what = "card"
	}
	if onlyMissing {
		what = "missing " + what
	}
	if series == collection.AllSeries {
		return fmt.Sprintf("%d %s", n, what)
	}
	return fmt.Sprintf("%d %s in %s", n, what, collection.SeriesTitle(series))
}

func (v *collectionView) confirmReset() {
	if v.series == collection.AllSeries {
		dialog.ShowInformation("Reset Series", "Select a single series to reset.", v.app.window)
		return
	}

	series := v.series
	confirm := dialog.NewConfirm("Reset Series",
		fmt.Sprintf("Set every card in %s back to zero owned?", series),
		func(ok bool) {
			if !ok {
				return
			}
			n, err := v.app.service.ResetSeries(series)
			if err != nil {
				if errors.Is(err, collection.ErrResetAll) {
					dialog.ShowInformation("Reset Series", "Select a single series to reset.", v.app.window)
					return
				}
				v.app.ShowErrorDialog("Reset Failed", err)
				return
			}
			v.refresh()
			v.status.SetText(fmt.Sprintf("Reset %d cards in %s", n, collection.SeriesTitle(series)))
		}, v.app.window)
	confirm.SetConfirmText("Yes, Reset")
	confirm.SetDismissText("Cancel")
	confirm.Show()
}
