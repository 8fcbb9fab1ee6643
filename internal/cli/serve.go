package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/stayintouch/internal/server"
)

// scheduledRunTimeout bounds one scheduled digest run.
const scheduledRunTimeout = 2 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server and the reminder schedule",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	db, dbPath, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	dispatcher, err := newDispatcher(db)
	if err != nil {
		return err
	}

	if spec := cfg.Schedule.Reminders; spec != "" {
		sched, err := dispatcher.Schedule(spec, scheduledRunTimeout)
		if err != nil {
			return err
		}
		defer sched.Stop()
		fmt.Fprintf(os.Stderr, "  reminders: %q via %v\n", spec, dispatcher.Channels())
	}

	srv := server.New(db, server.Options{
		Version:     VersionString(),
		Drafter:     newDrafter(),
		Dispatcher:  dispatcher,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	})
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "stayintouch serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
