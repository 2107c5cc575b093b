package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "gmetrans <input_gme_path> <work_dir>",
		Short:        "Translate spoken audio inside a TipToi GME cartridge",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], args[1])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().Bool("skip_translation", false, "Reuse translations from a previous run instead of invoking the model")
	root.Flags().Bool("force_cpu", false, "Force model inference on CPU even when a GPU is available")
	root.Flags().String("config", "", "Path to a TOML config file")
	root.Flags().String("log-level", "", "Log level: debug, info, warn, error")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
