package main

import (
	"embed"
	"log/slog"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"go.scrib.dev/scrib/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	slog.Info("starting app", "version", version, "commit", commit, "date", date)
	service := app.New(version)

	wailsApp := application.New(application.Options{
		Name:        "Scrib",
		Description: "Menu-bar dictation",
		Services: []application.Service{
			application.NewService(service),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			// Don't quit when all windows are closed (we have a system tray)
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	// Settings and history window, reopened from the tray.
	mainWindow := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:  "Scrib",
		Width:  900,
		Height: 640,
		URL:    "/",
		Hidden: true,
		Mac: application.MacWindow{
			TitleBar:                application.MacTitleBarHiddenInsetUnified,
			InvisibleTitleBarHeight: 38,
		},
	})

	// Intercept window close: hide instead of destroy so tray can reopen
	mainWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		mainWindow.Hide()
	})

	// Floating recording bar shown while a session is active. Driven by
	// recording-state events.
	barWindow := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:         "Recording",
		Width:         320,
		Height:        72,
		URL:           "/#/bar",
		Hidden:        true,
		Frameless:     true,
		AlwaysOnTop:   true,
		DisableResize: true,
	})

	service.Init(wailsApp, barWindow)

	systemTray := wailsApp.SystemTray.New()
	systemTray.SetLabel("Scrib")

	trayMenu := wailsApp.NewMenu()
	trayMenu.Add("Toggle Dictation").OnClick(func(ctx *application.Context) {
		go service.ToggleRecording()
	})
	trayMenu.Add("Settings & History").OnClick(func(ctx *application.Context) {
		mainWindow.Show()
		mainWindow.Focus()
	})

	providerMenu := trayMenu.AddSubmenu("Transcription Service")
	active := service.GetSpeechConfig().Provider
	for _, p := range service.GetProviders() {
		provider := p
		providerMenu.AddRadio(provider.Name, provider.Identifier == active).OnClick(func(ctx *application.Context) {
			cfg := service.GetSpeechConfig()
			cfg.Provider = provider.Identifier
			if err := service.SetSpeechConfig(cfg); err != nil {
				slog.Error("set speech provider", "error", err)
			}
		})
	}

	trayMenu.AddSeparator()
	trayMenu.Add("Quit Scrib").
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(ctx *application.Context) {
			service.Shutdown()
			wailsApp.Quit()
		})

	systemTray.SetMenu(trayMenu)

	if err := wailsApp.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
}
