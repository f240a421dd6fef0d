package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	askQuestion string
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question with the configured model",
	Long: `Retrieve, assemble the context and generate an answer. When nothing
relevant fits the context the model is not called.

Examples:
  docqa ask -q "北京企业注册流程"
  docqa ask -q "上海税务登记" --json`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "query", "q", "", "question (required)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the answer object as JSON")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := openPipeline(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer p.Close()

	answerUC, err := p.answerer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	answer, err := answerUC.Answer(ctx, askQuestion)
	if err != nil {
		color.Red("Error: %v\n", err)
		return err
	}

	if askJSON {
		output, err := json.MarshalIndent(map[string]any{"answer": answer}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if answer.TitleRelated != "" {
		color.Cyan("Title match:")
		fmt.Print(answer.TitleRelated)
		if answer.TitleSummary != "" {
			color.Cyan("\nSummary:")
			fmt.Print(answer.TitleSummary)
		}
		fmt.Println()
	}

	if answer.NoRelevantContent {
		color.Yellow(answer.ModelAnswer)
		return nil
	}

	color.Green("Answer:")
	fmt.Println(answer.ModelAnswer)
	if answer.ContentRelated != "" {
		color.Cyan("\nSources:")
		fmt.Println(answer.ContentRelated)
	}
	return nil
}
