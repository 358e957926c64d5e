package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/importer"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository/dao"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import [" + strings.Join(importer.Kinds, "|") + "]",
	Short: "Load seed data into the database",
	Long: `Imports CSV or GeoJSON exports into the database.

  vendors     CSV: name, vendor_type, description, website, tags (';' separated), default_stall
  attendance  CSV: vendor (name), date (YYYY-MM-DD), stall
  dates       CSV: date (YYYY-MM-DD), title
  stalls      GeoJSON points with a stallId property
  pois        GeoJSON points with title, poiType and description properties

Example:
  market import attendance --file season-2026.csv`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: importer.Kinds,
	RunE:      runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "file to import")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	_, postgresDB, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer zap.L().Sync() //nolint:errcheck

	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("os.Open -> %w", err)
	}
	defer f.Close()

	repo := repository.NewMarketRepository(dao.NewMarketDAO(postgresDB))

	res, err := importer.New(repo).Import(cmd.Context(), args[0], f)
	if err != nil {
		return fmt.Errorf("import %s -> %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d inserted, %d skipped, %d duplicates\n",
		args[0], res.Inserted, res.Skipped, res.Duplicates)

	return nil
}
