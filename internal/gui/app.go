// Package gui is the fyne desktop front end of the pack simulator.
package gui

import (
	"context"
	"errors"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/imagecache"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/simulator"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/watch"
)

const windowTitle = "One Piece TCG Pack Simulator"

// Options configures the GUI.
type Options struct {
	Service *simulator.Service
	Images  *imagecache.Cache // optional; card images are hidden without it
	Watcher *watch.Watcher    // optional catalog watcher
	ArtURL  string            // pack art shown before a randomized pack is opened
	Logger  *slog.Logger

	// App overrides the fyne application, for tests.
	App fyne.App
}

// App represents the GUI application. Fields below the window are only
// touched on the fyne UI goroutine.
type App struct {
	app     fyne.App
	window  fyne.Window
	service *simulator.Service
	images  *imagecache.Cache
	watcher *watch.Watcher
	artURL  string
	logger  *slog.Logger
	ctx     context.Context

	view *collectionView
}

// NewApp creates a new GUI application.
func NewApp(opts Options) (*App, error) {
	if opts.Service == nil {
		return nil, errors.New("service is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.App == nil {
		opts.App = app.NewWithID("com.optcg.packsimulator")
	}
	return &App{
		app:     opts.App,
		service: opts.Service,
		images:  opts.Images,
		watcher: opts.Watcher,
		artURL:  opts.ArtURL,
		logger:  opts.Logger,
		ctx:     context.Background(),
	}, nil
}

// Run shows the window and blocks until it is closed. Cards and progress are
// read on a worker goroutine while a loading view is shown.
func (a *App) Run() {
	a.window = a.app.NewWindow(windowTitle)
	a.window.Resize(fyne.NewSize(1100, 700))
	a.window.SetContent(a.LoadingView("Loading cards..."))
	a.window.SetCloseIntercept(a.onClose)

	go a.load()

	a.window.ShowAndRun()
}

func (a *App) load() {
	loaded, err := a.service.Load(a.ctx)
	fyne.Do(func() {
		if err != nil {
			a.showLoadError(err)
			return
		}
		a.install(loaded)
	})
}

func (a *App) install(loaded *simulator.Loaded) {
	if _, err := a.service.Install(loaded); err != nil {
		a.showLoadError(err)
		return
	}

	a.view = newCollectionView(a)
	a.window.SetContent(a.view.content())
	a.view.refresh()
	a.setupKeyboardShortcuts()
	a.startWatching()
}

func (a *App) showLoadError(err error) {
	a.window.SetContent(a.ErrorView("Could Not Load Collection", err, func() {
		a.window.SetContent(a.LoadingView("Loading cards..."))
		go a.load()
	}))
}

// onClose saves progress before the window goes away. A failed save is
// logged by the service and never blocks closing.
func (a *App) onClose() {
	a.stopWatching()
	_ = a.service.Save(a.ctx)
	a.window.Close()
}

func (a *App) startWatching() {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Start(); err != nil {
		a.logger.Warn("catalog watch disabled", "error", err)
		a.watcher.Stop()
		a.watcher = nil
		return
	}

	go func(changes <-chan struct{}) {
		for range changes {
			cards, err := a.service.LoadCatalog()
			if err != nil {
				a.logger.Warn("catalog reload skipped", "error", err)
				continue
			}
			fyne.Do(func() { a.reload(cards) })
		}
	}(a.watcher.Changes)
}

func (a *App) stopWatching() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
}

func (a *App) reload(cards []*collection.Card) {
	if _, err := a.service.Reload(cards); err != nil {
		// An open pack keeps the current catalog; the next change retries.
		a.logger.Info("catalog reload deferred", "error", err)
		return
	}
	if a.view != nil {
		a.view.refresh()
	}
	a.logger.Info("catalog reloaded", "cards", len(cards))
}
