package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gmetrans/internal/config"
	"gmetrans/internal/logging"
	"gmetrans/internal/pipeline"
)

func run(cmd *cobra.Command, gmePath, workDir string) error {
	skipTranslation, _ := cmd.Flags().GetBool("skip_translation")
	forceCPU, _ := cmd.Flags().GetBool("force_cpu")
	cfgPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	if cfgPath == "" {
		cfgPath = os.Getenv("GMETRANS_CONFIG")
	}
	appCfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if logLevel == "" {
		logLevel = appCfg.LogLevel
	}
	log := logging.New(logLevel, os.Stderr).With("run", uuid.NewString()[:8])

	absIn, err := filepath.Abs(gmePath)
	if err != nil {
		return err
	}

	// Model inference on CPU can take hours for a full cartridge; the
	// deadline is a backstop against a hung external tool, not a budget.
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		GMEPath:         absIn,
		WorkDir:         workDir,
		SkipTranslation: skipTranslation,
		ForceCPU:        forceCPU,
		App:             appCfg,
		Log:             log,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}
