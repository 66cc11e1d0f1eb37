package cmd

import (
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"revloans/worker"
	"revloans/worker/liquidation"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "revloans job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		propertyStore := providePropertyStore(database)
		loanStore := provideLoanStore(database)
		eventStore := provideEventStore(database)
		loanService := provideLoanService(database, propertyStore, loanStore, eventStore)

		workers := []worker.Worker{
			liquidation.New(provideConfig(), loanService),
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		if err := g.Wait(); err != nil {
			log.WithError(err).Errorln("worker aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
