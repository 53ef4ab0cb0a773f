package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lionel1704/sn-node/internal/logger"
	"github.com/lionel1704/sn-node/pkg/adata"
	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/chunkstore/badgerstore"
	"github.com/lionel1704/sn-node/pkg/chunkstore/fsstore"
	"github.com/lionel1704/sn-node/pkg/chunkstore/s3store"
	"github.com/lionel1704/sn-node/pkg/config"
	"github.com/lionel1704/sn-node/pkg/dispatcher"
	"github.com/lionel1704/sn-node/pkg/idata"
	"github.com/lionel1704/sn-node/pkg/mdata"
	"github.com/lionel1704/sn-node/pkg/metrics"
	_ "github.com/lionel1704/sn-node/pkg/metrics/prometheus"
	"github.com/lionel1704/sn-node/pkg/routing"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the vault data-handling core",
	Long: `Run this node's data-handling core: the Adult holder role always,
and the Elder coordinating role when peers are configured.

This command wires up chunk storage, the in-flight op table, and the
request dispatcher, then blocks until interrupted. Delivering inbound
RPCs and transmitting outbound actions is the job of the routing
transport this core is embedded in; serve does not open a network
listener of its own beyond the optional metrics endpoint.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go serveMetrics(cfg.Metrics.Port)
	}

	self, err := selfNodeID(cfg)
	if err != nil {
		return err
	}

	d, err := buildDispatcher(ctx, cfg, self)
	if err != nil {
		return err
	}
	_ = d // wired in, driven by the routing transport this core runs under

	logger.Info("vaultd started", slog.String("root_dir", cfg.RootDir))
	<-ctx.Done()
	logger.Info("vaultd shutting down")
	return nil
}

func selfNodeID(cfg *config.Config) (vaultid.NodeID, error) {
	if cfg.Self == "" {
		return vaultid.NodeID{}, nil
	}
	name, err := cfg.SelfXorName()
	if err != nil {
		return vaultid.NodeID{}, fmt.Errorf("invalid self identity: %w", err)
	}
	return vaultid.NodeID{Name: name}, nil
}

// buildDispatcher constructs one node's full storage and coordination
// stack: the holder role always, and the Elder handlers when peers
// configure this node to route for a close group.
func buildDispatcher(ctx context.Context, cfg *config.Config, self vaultid.NodeID) (*dispatcher.Dispatcher, error) {
	idataBackend, err := openBackend(ctx, cfg, "idata")
	if err != nil {
		return nil, err
	}

	holder, err := idata.NewHolder(ctx, idataBackend, chunkStoreConfig(cfg, "idata"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize idata holder: %w", err)
	}

	var idataHandler *idata.IDataHandler
	var mdataHandler *mdata.Handler
	var adataHandler *adata.Handler

	if len(cfg.Peers) > 0 {
		peers, err := cfg.PeerXorNames()
		if err != nil {
			return nil, fmt.Errorf("invalid peers: %w", err)
		}
		router := routing.StaticRouter{Peers: peers}

		idataHandler = idata.NewIDataHandler(self, router, idata.HandlerConfig{
			ReplicaCount: cfg.ReplicaCount,
			OpTTL:        cfg.IDataOpTTL,
			Metrics:      metrics.NewIDataMetrics(),
		})
		go idataHandler.Run(ctx)

		mdataBackend, err := openBackend(ctx, cfg, "mdata")
		if err != nil {
			return nil, err
		}
		mdataHandler, err = mdata.NewHandler(ctx, mdataBackend, chunkStoreConfig(cfg, "mdata"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mdata handler: %w", err)
		}

		adataBackend, err := openBackend(ctx, cfg, "adata")
		if err != nil {
			return nil, err
		}
		adataHandler, err = adata.NewHandler(ctx, adataBackend, chunkStoreConfig(cfg, "adata"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize adata handler: %w", err)
		}
	}

	return dispatcher.New(self, holder, idataHandler, mdataHandler, adataHandler), nil
}

// openBackend opens the configured Backend implementation for one object
// kind. fs and badger each get their own subdirectory under root_dir; s3
// uses a shared bucket with kind as an additional key prefix segment.
func openBackend(ctx context.Context, cfg *config.Config, kind string) (chunkstore.Backend, error) {
	switch cfg.Backend {
	case "badger":
		return badgerstore.New(badgerstore.Config{Dir: cfg.RootDir + "/" + kind})
	case "s3":
		s3cfg := cfg.S3
		s3cfg.KeyPrefix = s3cfg.KeyPrefix + kind + "/"
		return s3store.NewFromConfig(ctx, s3store.Config{
			Bucket:         s3cfg.Bucket,
			Region:         s3cfg.Region,
			Endpoint:       s3cfg.Endpoint,
			KeyPrefix:      s3cfg.KeyPrefix,
			ForcePathStyle: s3cfg.ForcePathStyle,
		})
	default:
		return fsstore.New(fsstore.DefaultConfig(cfg.RootDir + "/" + kind))
	}
}

func chunkStoreConfig(cfg *config.Config, objectKind string) chunkstore.Config {
	return chunkstore.Config{
		MaxCapacity: uint64(cfg.MaxCapacity),
		Mode:        chunkstore.Recover,
		Metrics:     metrics.NewChunkStoreMetrics(objectKind),
	}
}

func serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Info("metrics server listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server stopped", logger.Err(err))
	}
}
