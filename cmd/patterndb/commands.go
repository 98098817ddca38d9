package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jtomasevic/patterndb/internal/config"
	"github.com/jtomasevic/patterndb/internal/telemetry"
	"github.com/jtomasevic/patterndb/pck/association"
	"github.com/jtomasevic/patterndb/pck/patterncore"
	"github.com/jtomasevic/patterndb/pck/tiered"
)

// openStorage loads configPath and wires a TieredStorage backed by the real
// OS filesystem, the shape every subcommand needs.
func openStorage(configPath string) (*tiered.TieredStorage, *tiered.TierManager, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	fs := afero.NewOsFs()
	warm, err := tiered.NewWarmTier(fs, cfg.TierPaths.Warm)
	if err != nil {
		return nil, nil, err
	}
	cold, err := tiered.NewColdTier(fs, cfg.TierPaths.Cold)
	if err != nil {
		return nil, nil, err
	}
	archive, err := tiered.NewArchiveTier(fs, cfg.TierPaths.Archive)
	if err != nil {
		return nil, nil, err
	}

	manager := tiered.NewTierManager(tiered.NewActiveTier(), warm, cold, archive)
	matrix := association.NewMatrix(0.0)

	logger, err := telemetry.NewLogger(cfg.DevLogging)
	if err != nil {
		return nil, nil, err
	}

	storageCfg := tiered.Config{
		CacheCapacity:            cfg.Cache.Capacity,
		EnableAutoPromotion:      cfg.Cache.EnableAutoPromotion,
		PromotionAccessThreshold: cfg.Cache.PromotionAccessThreshold,
		EnablePrefetching:        cfg.Cache.EnablePrefetching,
		PrefetchMaxDepth:         cfg.Cache.PrefetchMaxDepth,
		PrefetchMaxPatterns:      cfg.Cache.PrefetchMaxPatterns,
	}

	storage, err := tiered.NewTieredStorage(manager, matrix, storageCfg, telemetry.NewMetrics(), logger)
	if err != nil {
		return nil, nil, err
	}
	return storage, manager, nil
}

func newPutCmd(configPath *string) *cobra.Command {
	var tierName string

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Store a freshly generated empty pattern in a tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, _, err := openStorage(*configPath)
			if err != nil {
				return err
			}

			level, ok := tiered.ParseMemoryTier(tierName)
			if !ok {
				return fmt.Errorf("unknown tier %q", tierName)
			}

			node := patterncore.NewPatternNode(
				patterncore.NewPatternID(),
				patterncore.NewPatternData(patterncore.ModalityUnknown, patterncore.NewFeatureVector(nil), nil),
				patterncore.PatternAtomic,
			)
			if !storage.StorePatternInTier(node, level) {
				return fmt.Errorf("failed to store pattern in tier %s", tierName)
			}

			fmt.Println(node.GetID().String())
			return nil
		},
	}
	cmd.Flags().StringVar(&tierName, "tier", "Active", "tier to store into (Active, Warm, Cold, Archive)")
	return cmd
}

func newGetCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <pattern-id>",
		Short: "Fetch a pattern by id, reporting which tier served it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, _, err := openStorage(*configPath)
			if err != nil {
				return err
			}

			id, err := patterncore.ParsePatternID(args[0])
			if err != nil {
				return err
			}

			node, ok := storage.GetPatternWithPromotion(id)
			if !ok {
				return fmt.Errorf("pattern %s not found", id)
			}

			level, _ := storage.GetPatternTier(id)
			fmt.Printf("%s (tier=%s)\n", node.String(), level)
			return nil
		},
	}
	return cmd
}

func newStatsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print cache and per-tier pattern counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, manager, err := openStorage(*configPath)
			if err != nil {
				return err
			}

			stats := storage.GetCacheStats()
			fmt.Printf("cache: size=%d capacity=%d hits=%d misses=%d hit_rate=%.3f promotions=%d\n",
				storage.GetCacheSize(), storage.GetCacheCapacity(), stats.Hits, stats.Misses, stats.GetHitRate(), stats.Promotions)

			for level := tiered.TierActive; level <= tiered.TierArchive; level++ {
				tier := manager.Tier(level)
				if tier == nil {
					continue
				}
				fmt.Printf("%-8s patterns=%d associations=%d bytes=%d\n",
					tier.Name(), tier.PatternCount(), tier.AssociationCount(), tier.EstimateMemoryUsage())
			}
			return nil
		},
	}
	return cmd
}

func newMigrateCmd(configPath *string) *cobra.Command {
	var fromName, toName string

	cmd := &cobra.Command{
		Use:   "migrate <pattern-id>",
		Short: "Move a pattern from one tier to another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, manager, err := openStorage(*configPath)
			if err != nil {
				return err
			}

			id, err := patterncore.ParsePatternID(args[0])
			if err != nil {
				return err
			}

			from, ok := tiered.ParseMemoryTier(fromName)
			if !ok {
				return fmt.Errorf("unknown source tier %q", fromName)
			}
			to, ok := tiered.ParseMemoryTier(toName)
			if !ok {
				return fmt.Errorf("unknown destination tier %q", toName)
			}

			return manager.Migrate(id, from, to)
		},
	}
	cmd.Flags().StringVar(&fromName, "from", "Active", "source tier")
	cmd.Flags().StringVar(&toName, "to", "Warm", "destination tier")
	return cmd
}
