package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/giygas/medicines-search/config"
	"github.com/giygas/medicines-search/dataset"
	"github.com/giygas/medicines-search/logging"
	"github.com/giygas/medicines-search/render"
	"github.com/giygas/medicines-search/search"
	"github.com/giygas/medicines-search/validation"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search the medicines table from the command line",
	Long: `Search loads the medicines table and prints the results for QUERY, one
page at a time. Words after the command are joined with spaces.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("letter", "", "only show results starting with this letter")
	searchCmd.Flags().Int("page", 1, "page of results to print")
	searchCmd.Flags().String("file", defaultDataFile(), "medicines table to load (CSV or TSV)")
	searchCmd.Flags().Bool("verbose", false, "log loading details to the console")

	rootCmd.AddCommand(searchCmd)
}

func defaultDataFile() string {
	if path := os.Getenv("DATA_FILE"); path != "" {
		return path
	}
	return "files/medicines.csv"
}

func runSearch(cmd *cobra.Command, args []string) error {
	letter, _ := cmd.Flags().GetString("letter")
	page, _ := cmd.Flags().GetInt("page")
	file, _ := cmd.Flags().GetString("file")
	verbose, _ := cmd.Flags().GetBool("verbose")

	// Only errors reach the console unless --verbose
	logging.InitLogger(logging.Options{Env: config.EnvTest, Verbose: verbose})

	ds, err := dataset.NewFileLoader(file, "").Load(cmd.Context())
	if err != nil {
		return err
	}
	logging.Info("Dataset loaded", "source", ds.Source(), "records", ds.Len())

	// A blank query prints the prompt, like an empty search box
	query := strings.TrimSpace(strings.Join(args, " "))
	validator := validation.NewDataValidator()
	if query != "" {
		if err := validator.ValidateQuery(query); err != nil {
			return fmt.Errorf("invalid query: %w", err)
		}
	}
	if err := validator.ValidateLetter(letter); err != nil {
		return fmt.Errorf("invalid letter: %w", err)
	}

	engine := search.NewEngine(search.StaticSource{Dataset: ds}, 0)
	state := engine.Restore(query, letter, page)

	return render.NewTextRenderer().Render(cmd.OutOrStdout(), state.View())
}
