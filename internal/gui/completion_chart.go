package gui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
)

// chartConfig sizes the completion chart.
type chartConfig struct {
	Width     float32
	Height    float32
	BarColor  color.Color
	GridColor color.Color
}

func defaultChartConfig() chartConfig {
	return chartConfig{
		Width:     760,
		Height:    420,
		BarColor:  color.RGBA{R: 200, G: 40, B: 40, A: 255},
		GridColor: color.RGBA{R: 200, G: 200, B: 200, A: 255},
	}
}

// completionChart draws one bar per series, scaled 0-100% owned.
func completionChart(stats []collection.SeriesStats, config chartConfig) fyne.CanvasObject {
	if len(stats) == 0 {
		return widget.NewLabel("No data available")
	}

	leftMargin := float32(50)
	rightMargin := float32(20)
	topMargin := float32(20)
	bottomMargin := float32(50)
	plotWidth := config.Width - leftMargin - rightMargin
	plotHeight := config.Height - topMargin - bottomMargin

	textColor := color.RGBA{R: 66, G: 66, B: 66, A: 255}
	var objects []fyne.CanvasObject

	for i := 0; i <= 4; i++ {
		y := topMargin + plotHeight/4*float32(i)
		line := canvas.NewLine(config.GridColor)
		line.Position1 = fyne.NewPos(leftMargin, y)
		line.Position2 = fyne.NewPos(leftMargin+plotWidth, y)
		line.StrokeWidth = 1
		objects = append(objects, line)

		label := canvas.NewText(fmt.Sprintf("%d%%", 100-25*i), textColor)
		label.TextSize = 10
		label.Move(fyne.NewPos(5, y-7))
		objects = append(objects, label)
	}

	slot := plotWidth / float32(len(stats))
	barWidth := slot * 0.7
	for i, s := range stats {
		barHeight := plotHeight * float32(s.Percent()/100)
		x := leftMargin + slot*float32(i) + (slot-barWidth)/2
		y := topMargin + plotHeight - barHeight

		bar := canvas.NewRectangle(config.BarColor)
		bar.Resize(fyne.NewSize(barWidth, barHeight))
		bar.Move(fyne.NewPos(x, y))
		objects = append(objects, bar)

		code := canvas.NewText(s.Code, textColor)
		code.TextSize = 9
		code.Alignment = fyne.TextAlignCenter
		code.Resize(fyne.NewSize(slot, 14))
		code.Move(fyne.NewPos(leftMargin+slot*float32(i), topMargin+plotHeight+6))
		objects = append(objects, code)

		value := canvas.NewText(fmt.Sprintf("%d/%d", s.Owned, s.Total), textColor)
		value.TextSize = 9
		value.Alignment = fyne.TextAlignCenter
		value.Resize(fyne.NewSize(slot, 14))
		value.Move(fyne.NewPos(leftMargin+slot*float32(i), y-16))
		objects = append(objects, value)
	}

	chart := container.NewWithoutLayout(objects...)
	chart.Resize(fyne.NewSize(config.Width, config.Height))

	// NewWithoutLayout has no min size; the wrapper reserves the space.
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(config.Width, config.Height))
	return container.NewStack(spacer, chart)
}

// showCompletion opens the completion chart for the current collection.
func (a *App) showCompletion() {
	var stats []collection.SeriesStats
	if err := a.service.View(func(m *collection.Model) { stats = m.Completion() }); err != nil {
		a.ShowErrorDialog("Completion", err)
		return
	}

	owned, total := 0, 0
	for _, s := range stats {
		owned += s.Owned
		total += s.Total
	}
	summary := widget.NewLabel(fmt.Sprintf("%d of %d cards owned across %d series", owned, total, len(stats)))

	content := container.NewBorder(nil, summary, nil, nil,
		container.NewScroll(completionChart(stats, defaultChartConfig())))
	d := dialog.NewCustom("Collection Completion", "Close", content, a.window)
	d.Resize(fyne.NewSize(820, 540))
	d.Show()
}
