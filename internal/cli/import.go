package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/app"
	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/sources/seed"
	"github.com/MrSnakeDoc/marks/internal/utils"
)

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import bookmarks from a YAML seed file into the configured store",
		Long: `Import validates and sanitizes every entry exactly like POST /bookmarks.
Invalid entries are logged and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer utils.CloseLogged(store, log, "store")

	importer := seed.NewImporter(store, domain.NewValidator(log), domain.NewSanitizer(), log)
	res, err := importer.ImportFile(ctx, args[0])
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d bookmarks, skipped %d\n", res.Imported, res.Skipped)
	return err
}
