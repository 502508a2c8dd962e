package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"project_navigator/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, agent, log, err := setup()
		if err != nil {
			return err
		}
		srv, err := server.New(agent, log, server.Options{LLMTimeout: cfg.LLM.Timeout})
		if err != nil {
			return err
		}

		listen := cfg.Server.Addr
		if serveAddr != "" {
			listen = serveAddr
		}
		httpSrv := &http.Server{Addr: listen, Handler: srv.Routes()}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info("starting web server", "addr", listen)
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			log.Info("shutting down web server")
			return httpSrv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "http listen address (overrides server.addr)")
}
