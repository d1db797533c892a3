package cmd

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/papertrade/server"
	gin "github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

type serveCmd struct {
	port string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `ptrade serve [-port <port>]

  Serves the trading API until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.port, "port", "", "port to listen on (default $PORT)")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		port := a.cfg.Port
		if c.port != "" {
			port = c.port
		}
		if a.cfg.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{Addr: ":" + port, Handler: server.New(a.engine)}
		errc := make(chan error, 1)
		go func() {
			log.WithField("port", port).Infoln("http listening")
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Infoln("shutdown complete")
		return nil
	})
}
