package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"qrkeep/internal/di"
	"qrkeep/internal/providers"
	"qrkeep/internal/structures"

	"github.com/spf13/cobra"
)

var flags structures.CliFlags

var (
	exportOut  string
	exportFull bool
	importIn   string
)

// rootCmd serves the HTTP API when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:           "qrkeep",
	Short:         "QRKeep - QR code generator and scanner with local history",
	Version:       providers.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a history backup as JSON",
	Long: `Writes the stored history, favorites and statistics as JSON.
With --full the backup also contains settings and a format version.

Example:
  qrkeep export --out backup.json --full`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := di.InitMaintenance(&flags)
		if err != nil {
			return err
		}
		defer cleanup()

		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" && exportOut != "-" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOut, err)
			}
			defer f.Close()
			w = f
		}
		return m.Export(w, exportFull)
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Merge a history backup into the stored records",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importIn)
		if err != nil {
			return fmt.Errorf("open %s: %w", importIn, err)
		}
		defer f.Close()

		m, cleanup, err := di.InitMaintenance(&flags)
		if err != nil {
			return err
		}
		defer cleanup()
		return m.Import(f)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete history, favorites and statistics and restore default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := di.InitMaintenance(&flags)
		if err != nil {
			return err
		}
		defer cleanup()
		return m.Reset()
	},
}

func serve(ctx context.Context) error {
	app, cleanup, err := di.InitApp(&flags)
	if err != nil {
		return err
	}
	defer cleanup()
	return app.Run(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "configs/config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to the console")

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")
	exportCmd.Flags().BoolVar(&exportFull, "full", false, "include settings and format version")

	importCmd.Flags().StringVarP(&importIn, "in", "i", "", "backup file to import")
	_ = importCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(serveCmd, exportCmd, importCmd, resetCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
