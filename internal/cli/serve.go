package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qmap/internal/api"
	"github.com/matzehuels/qmap/pkg/config"
	"github.com/matzehuels/qmap/pkg/observability"
	"github.com/matzehuels/qmap/pkg/observability/metrics"
	"github.com/matzehuels/qmap/pkg/observability/tracing"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		storeKind string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the allocation API over HTTP",
		Long: `Serve the allocation API over HTTP.

Allocations are stored in memory, on disk or in MongoDB depending on the
[server] section of the config file. Prometheus metrics are exposed at
/metrics; spans go to the globally registered OpenTelemetry provider.`,
		Example: `  qmap serve --addr :9090
  qmap serve --store file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				c.Config.Server.Store = storeKind
				if err := c.Config.Validate(); err != nil {
					return err
				}
			}
			if c.Config.Server.Addr == "" {
				c.Config.Server.Addr = config.DefaultAddr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			st, err := c.Config.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			hooks := observability.Multi(metrics.New(reg), tracing.New(nil))
			runner.Hooks = hooks

			srv, err := api.New(api.Config{
				Runner:   runner,
				Store:    st,
				Logger:   logger,
				Hooks:    hooks,
				Gatherer: reg,
			})
			if err != nil {
				return err
			}

			logger.Info("serving", "addr", c.Config.Server.Addr, "store", c.Config.Server.Store, "cache", c.Config.Cache.Type)
			return srv.ListenAndServe(ctx, c.Config.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&storeKind, "store", config.StoreMemory, "record store: memory, file, mongo")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the solution cache")
	return cmd
}
