// Package app wires the Smart Voyage terminal client together: local storage,
// the auth gateway, the generation transport, the controller and the REPL.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/smartvoyage/internal/client/cli"
	"github.com/dmitrijs2005/smartvoyage/internal/client/client"
	"github.com/dmitrijs2005/smartvoyage/internal/client/config"
	"github.com/dmitrijs2005/smartvoyage/internal/client/controller"
	"github.com/dmitrijs2005/smartvoyage/internal/client/gateway"
	"github.com/dmitrijs2005/smartvoyage/internal/client/generation"
	"github.com/dmitrijs2005/smartvoyage/internal/client/services"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *client.Database
	gateway *gateway.SupabaseGateway
	ctrl    *controller.Controller
	in      io.Reader
	out     io.Writer
	closers []io.Closer
}

// NewApp opens local storage and builds every collaborator. in and out are
// the terminal streams.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger, logFile, err := logging.NewFileLogger(c.LogFile, slog.LevelInfo)
	if err != nil {
		return nil, err
	}
	app := &App{config: c, logger: logger, in: in, out: out, closers: []io.Closer{logFile}}

	db, err := client.InitDatabase(ctx, c.StorageDSN)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append([]io.Closer{db}, app.closers...)

	app.gateway = gateway.NewSupabaseGateway(c.AuthURL, c.AnonKey, db.Local(), logger)

	gen, err := app.newGenerator()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("generation init error: %w", err)
	}

	app.ctrl = controller.New(controller.Deps{
		Gateway:     app.gateway,
		Generator:   gen,
		Profiles:    services.NewProfileService(db, logger),
		Journeys:    services.NewJourneyService(db, logger),
		Exporter:    services.NewExportService(c.ExportDir, logger),
		Sharer:      services.NewShareService(c, logger),
		LocalData:   services.NewLocalDataService(db, logger),
		Notifier:    cli.NewConsoleNotifier(out),
		Log:         logger,
		RedirectURL: c.RedirectURL,
	})

	return app, nil
}

func (app *App) newGenerator() (generation.Service, error) {
	c := app.config
	if c.GenerationTransport == config.TransportGRPC {
		g, err := generation.NewGRPCClient(c.GenerationGRPCAddr, app.gateway.AccessToken, app.logger)
		if err != nil {
			return nil, err
		}
		app.closers = append([]io.Closer{g}, app.closers...)
		return g, nil
	}
	return generation.NewFunctionsClient(c.FunctionsURL, c.AnonKey, app.gateway.AccessToken, nil, app.logger), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run restores the session, keeps it refreshed in the background and serves
// the REPL until the user exits or a signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if err := app.ctrl.Start(ctx); err != nil {
		return err
	}
	defer app.ctrl.Close()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.gateway.StartRefreshWatcher(ctx, app.config.RefreshCheckInterval, app.config.RefreshMargin)
	}()

	// The REPL blocks on terminal input; a signal ends the process through
	// the cancelled context once the current read returns.
	done := make(chan struct{})
	go func() {
		defer close(done)
		cli.NewApp(app.ctrl, app.in, app.out, app.logger).Run(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
	cancelFunc()
	wg.Wait()

	app.logger.Info(ctx, "Stopped")
	return nil
}

// Close releases storage, the gRPC connection and the log file.
func (app *App) Close() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}
