package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/datsun80zx/repairtrack/internal/notify"
	"github.com/datsun80zx/repairtrack/internal/report"
	"github.com/datsun80zx/repairtrack/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// API clients expect amounts as JSON numbers
			decimal.MarshalJSONWithoutQuotes = true

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			s, release, err := a.openStore(ctx, reg)
			if err != nil {
				return err
			}
			defer release()

			renderer, err := report.NewRenderer(a.cfg.CurrencySymbol)
			if err != nil {
				return err
			}

			var notifier server.Notifier
			if a.cfg.WhatsAppConfigured() {
				notifier = notify.New(notify.OptionsFromConfig(a.cfg, a.log))
			} else {
				a.log.Info("whatsapp credentials not set, messaging disabled")
			}

			srv, err := server.New(server.Deps{
				Store:           s,
				Engine:          a.engine,
				Renderer:        renderer,
				Notifier:        notifier,
				Logger:          a.log,
				Gatherer:        reg,
				CORSOrigins:     a.cfg.CORSOrigins,
				MessageTemplate: a.cfg.WhatsAppMessageTemplate,
			})
			if err != nil {
				return err
			}

			a.log.WithField("source", a.cfg.JobSource).Info("starting repairtrack api")
			return srv.Run(ctx, a.cfg.Addr())
		},
	}
}
