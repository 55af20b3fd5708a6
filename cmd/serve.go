package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-showcase/cmd/config"
	"github.com/mattsolo1/grove-showcase/pkg/server"
	"github.com/mattsolo1/grove-showcase/pkg/service"
)

var serveUlog = grovelogging.NewUnifiedLogger("grove-showcase.cmd.serve")

func NewServeCmd(svc **service.Service) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog and the favorites/flows API over HTTP",
		Long: `Serve the configured catalog and backend with the routes the remote
client speaks:

  GET    /static/store_index.json
  GET    /static/{flows|components}/{file}.json
  GET    /api/v1/favorites/
  GET    /api/v1/favorites/item-ids
  POST   /api/v1/favorites/toggle
  DELETE /api/v1/favorites/{item_id}
  GET    /api/v1/flows/
  POST   /api/v1/flows/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if listen == "" {
				listen = config.Listen()
			}

			srv := &http.Server{
				Addr:              listen,
				Handler:           s.Server().Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			serveUlog.Info("Serving showcase").
				Field("listen", listen).
				Pretty(fmt.Sprintf("Serving on %s (static %s, api %s)", listen, server.StaticPrefix, server.APIPrefix)).
				Log(ctx)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Address to listen on (default from config, :7860)")

	return cmd
}
