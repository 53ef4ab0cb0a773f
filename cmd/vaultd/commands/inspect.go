package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lionel1704/sn-node/pkg/adata"
	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/config"
	"github.com/lionel1704/sn-node/pkg/idata"
	"github.com/lionel1704/sn-node/pkg/mdata"
)

var inspectListAddrs bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report chunk store usage for this node's data directory",
	Long: `Inspect opens each chunk-store kind under root_dir in recover mode
and reports its used_space and configured capacity, optionally listing
the stored addresses. Like recover, it writes no objects and persists no
accounting; it only reports what it finds.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectListAddrs, "list", false, "List stored object addresses per kind")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	idataBackend, err := openBackend(ctx, cfg, "idata")
	if err != nil {
		return fmt.Errorf("idata: %w", err)
	}
	defer idataBackend.Close()
	holder, err := idata.NewHolder(ctx, idataBackend, recoverConfig(cfg))
	if err != nil {
		return fmt.Errorf("idata: %w", err)
	}
	printUsedSpace("idata", holder.UsedSpace())
	if err := listAddrsIfRequested(ctx, idataBackend); err != nil {
		return fmt.Errorf("idata: %w", err)
	}

	mdataBackend, err := openBackend(ctx, cfg, "mdata")
	if err != nil {
		return fmt.Errorf("mdata: %w", err)
	}
	defer mdataBackend.Close()
	mh, err := mdata.NewHandler(ctx, mdataBackend, recoverConfig(cfg))
	if err != nil {
		return fmt.Errorf("mdata: %w", err)
	}
	printUsedSpace("mdata", mh.UsedSpace())
	if err := listAddrsIfRequested(ctx, mdataBackend); err != nil {
		return fmt.Errorf("mdata: %w", err)
	}

	adataBackend, err := openBackend(ctx, cfg, "adata")
	if err != nil {
		return fmt.Errorf("adata: %w", err)
	}
	defer adataBackend.Close()
	ah, err := adata.NewHandler(ctx, adataBackend, recoverConfig(cfg))
	if err != nil {
		return fmt.Errorf("adata: %w", err)
	}
	printUsedSpace("adata", ah.UsedSpace())
	return listAddrsIfRequested(ctx, adataBackend)
}

func listAddrsIfRequested(ctx context.Context, backend chunkstore.Backend) error {
	if !inspectListAddrs {
		return nil
	}
	addrs, err := backend.List(ctx)
	if err != nil {
		return err
	}
	for _, a := range addrs {
		fmt.Printf("  %s\n", a)
	}
	return nil
}
