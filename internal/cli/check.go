package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkCitations bool
	checkJSON      bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Verify claims or citations in a text from the terminal",
	Long: `Check runs the verification pipeline once, without the server.

Example:
  veridex check "The Eiffel Tower was completed in 1889."
  veridex check --citations "He, K., et al. (2016). Deep residual learning. CVPR."
  veridex check --json "Python was created by Guido van Rossum."`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkCitations, "citations", false, "verify citations instead of claims")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print raw JSON results")
}

func runCheck(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}
	defer func() { _ = logger.Sync() }()

	cfg := loadConfig()
	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	text := args[0]

	if checkCitations {
		results, err := p.VerifyCitations(ctx, text)
		if err != nil {
			return fmt.Errorf("verify citations: %w", err)
		}
		if checkJSON {
			return printJSON(results)
		}
		for _, r := range results {
			fmt.Printf("[%s] %s\n", r.Status, r.RawCitation)
			fmt.Printf("        %s\n", r.Reason)
			for _, e := range r.Errors {
				fmt.Printf("        error: %s\n", e)
			}
			for _, s := range r.Sources {
				fmt.Printf("        source: %s\n", s.URL)
			}
		}
		if len(results) == 0 {
			fmt.Println("No citations found.")
		}
		return nil
	}

	results, err := p.VerifyText(ctx, text)
	if err != nil {
		return fmt.Errorf("verify text: %w", err)
	}
	if checkJSON {
		return printJSON(results)
	}
	for _, r := range results {
		fmt.Printf("[%s] %s\n", r.Status, r.Claim)
		fmt.Printf("        %s\n", r.Reason)
		for _, s := range r.Sources {
			fmt.Printf("        source: %s\n", s.URL)
		}
	}
	if len(results) == 0 {
		fmt.Println("No verifiable claims found.")
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
