package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/medstud/internal/server"
	"github.com/abhisek/medstud/internal/spacedrep"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve quiz generation and review scheduling over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := log.New(os.Stderr, "medstud: ", log.LstdFlags)

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sched := spacedrep.NewScheduler(s.ReviewRepo())
		if err := sched.Load(ctx); err != nil {
			return err
		}

		handler := server.NewRouter(server.Container{
			Generator: buildGenerator(ctx, cmd, s.EventRepo(), logger),
			Scheduler: sched,
			Events:    s.EventRepo(),
			Items:     s.ReviewRepo(),
			Logger:    logger,
		})

		addr, _ := cmd.Flags().GetString("addr")
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Printf("listening on %s", addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		logger.Printf("shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	addCacheFlags(serveCmd)
}
