package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryText      string
	queryTopK      int
	queryThreshold int
	queryJSON      bool
	queryShow      bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Show what retrieval finds for a question",
	Long: `Run title and content matching for a question and print the title
summaries and the selected paragraphs of each content match.

Examples:
  docqa query -q "北京企业注册流程"
  docqa query -q "上海税务登记" --top-k 5 --json
  docqa query -q "上海税务登记" --show-queries`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "question (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of content matches (default from config)")
	queryCmd.Flags().IntVar(&queryThreshold, "threshold", 0, "paragraph overlap threshold (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVar(&queryShow, "show-queries", false, "print the generated index queries")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := openPipeline(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer p.Close()

	topK := cfg.Retrieve.ContentTopK
	if queryTopK > 0 {
		topK = queryTopK
	}
	threshold := cfg.Retrieve.ParagraphThreshold
	if queryThreshold > 0 {
		threshold = queryThreshold
	}

	if queryShow {
		if q, err := p.titles.Query(queryText); err == nil {
			fmt.Printf("title query:   %s\n", q)
		} else {
			fmt.Printf("title query:   (none: %v)\n", err)
		}
		if q := p.contents.Query(queryText); q != nil {
			fmt.Printf("content query: %s\n\n", q)
		}
	}

	result, err := p.retrieve.Retrieve(queryText, topK, threshold)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(result.TitleSummaries) == 0 && len(result.ContentMatches) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	for _, ts := range result.TitleSummaries {
		fmt.Printf("=== title match: %s (score: %.2f) ===\n", ts.TitleInfo.Title, ts.TitleInfo.Score)
		fmt.Println(ts.TitleInfo.Path)
		if ts.HasSummary {
			fmt.Println(ts.Summary)
		} else {
			fmt.Println("(no summary)")
		}
		fmt.Println()
	}

	for i, m := range result.ContentMatches {
		fmt.Printf("--- [%d] %s ---\n", i+1, m.Title)
		fmt.Println(m.Path)
		if m.Content == "" {
			fmt.Println("(no paragraph above threshold)")
		} else {
			fmt.Println(m.Content)
		}
		fmt.Println()
	}

	return nil
}
