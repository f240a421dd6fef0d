package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docqa/internal/domain"
)

var (
	packQuery  string
	packBudget int
	packOutput string
	packTopK   int
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Assemble the model context for a question",
	Long: `Retrieve for a question and assemble the token-bounded context that
would be handed to the model, as JSON.

Examples:
  docqa pack -q "北京企业注册流程"
  docqa pack -q "上海税务登记" -b 2000 -o context.json`,
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().StringVarP(&packQuery, "query", "q", "", "question (required)")
	packCmd.Flags().IntVarP(&packBudget, "budget", "b", -1, "token budget (default from config)")
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "output file (default: stdout)")
	packCmd.Flags().IntVarP(&packTopK, "top-k", "k", 0, "number of content matches (default from config)")
	packCmd.MarkFlagRequired("query")
}

func runPack(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := openPipeline(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer p.Close()

	topK := cfg.Retrieve.ContentTopK
	if packTopK > 0 {
		topK = packTopK
	}
	budget := cfg.Pack.MaxContextTokens
	if packBudget >= 0 {
		budget = packBudget
	}

	result, err := p.retrieve.Retrieve(packQuery, topK, cfg.Retrieve.ParagraphThreshold)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	packed, err := p.pack.Assemble(packQuery, result, budget)
	if errors.Is(err, domain.ErrNoRelevantContent) {
		fmt.Fprintln(os.Stderr, "No relevant content found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("packing failed: %w", err)
	}

	output, err := json.MarshalIndent(packed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if packOutput != "" {
		if err := os.WriteFile(packOutput, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Context packed to: %s\n", packOutput)
		fmt.Printf("  Documents: %d\n", len(packed.IncludedPaths))
		fmt.Printf("  Tokens:    %d / %d\n", packed.UsedTokens, packed.BudgetTokens)
	} else {
		fmt.Println(string(output))
	}

	return nil
}
