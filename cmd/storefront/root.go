package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"storefront/config"
	"storefront/internal/bootstrap"
	"storefront/internal/broker"
	"storefront/internal/dispatch"
	"storefront/internal/query"
	"storefront/internal/service"
	"storefront/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const loadFailedMessage = "Failed to load catalog. Check the catalog source and try again."

var errLoadFailed = errors.New("catalog not loaded")

// app is the state every subcommand shares once the catalog is loaded
type app struct {
	cfg         *config.Config
	storefront  *service.StorefrontService
	dispatchCfg dispatch.Config
	mobile      bool
	// events is nil unless KAFKA_ENABLED
	events   *broker.EventPublisher
	producer io.Closer
}

type rootFlags struct {
	source  string
	path    string
	url     string
	locale  string
	mobile  bool
	verbose bool
}

func newRootCmd() (*cobra.Command, *app) {
	flags := &rootFlags{}
	a := &app{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the print catalog and contact the seller",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.source, "source", "", "catalog source: file, http or postgres (default from CATALOG_SOURCE)")
	root.PersistentFlags().StringVar(&flags.path, "catalog", "", "catalog file path (default from CATALOG_PATH)")
	root.PersistentFlags().StringVar(&flags.url, "url", "", "catalog URL for the http source")
	root.PersistentFlags().StringVar(&flags.locale, "locale", "", "locale used to order names and categories")
	root.PersistentFlags().BoolVar(&flags.mobile, "mobile", false, "build links for a mobile device")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newBrowseCmd(a),
		newCategoriesCmd(a),
		newLinkCmd(a),
		newContactCmd(a),
	)
	return root, a
}

// execute runs the command tree and releases the app afterwards, also when a
// subcommand fails. Cobra skips post-run hooks on error.
func execute(root *cobra.Command, a *app) error {
	defer a.close()
	return root.Execute()
}

func (a *app) init(cmd *cobra.Command, flags *rootFlags) error {
	cfg := config.Load()

	if flags.verbose {
		if err := util.InitLogger(cfg.Server.Env); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	} else {
		util.UseLogger(zap.NewNop())
	}

	if cmd.Flags().Changed("source") {
		cfg.Catalog.Source = flags.source
	}
	if cmd.Flags().Changed("catalog") {
		cfg.Catalog.Source = "file"
		cfg.Catalog.Path = flags.path
	}
	if cmd.Flags().Changed("url") {
		cfg.Catalog.Source = "http"
		cfg.Catalog.URL = flags.url
	}
	if flags.locale != "" {
		cfg.Query.Locale = flags.locale
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Catalog.FetchTimeout+5*time.Second)
	defer cancel()

	cat, cleanup, err := bootstrap.LoadCatalog(ctx, cfg.Catalog, cfg.Database.URL)
	if err != nil {
		util.GetLogger().Error("Failed to load catalog", zap.Error(err))
		fmt.Fprintln(cmd.ErrOrStderr(), loadFailedMessage)
		return errLoadFailed
	}
	cleanup()

	a.cfg = cfg
	a.mobile = flags.mobile
	a.dispatchCfg = bootstrap.DispatchConfig(cfg.Dispatch)

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicContact)
		a.producer = producer
		a.events = broker.NewEventPublisher(producer)
		publisher = a.events
	}

	a.storefront = service.NewStorefrontService(
		cat,
		query.NewEngine(cfg.Query.Locale),
		service.NewMemorySessionStore(0),
		publisher,
		a.dispatchCfg,
	)
	return nil
}

func (a *app) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			util.GetLogger().Warn("Failed to close Kafka producer", zap.Error(err))
		}
	}
	util.SyncLogger()
}
