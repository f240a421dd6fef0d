package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docqa/internal/adapter/llm"
	"docqa/internal/domain"
)

var (
	promptQuery string
	promptCtx   string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt that would be sent to the model",
	Long: `Render the answer prompt for manual use with any model. The context is
either assembled from the index for --query or read from a file written by
'docqa pack -o'.

Examples:
  docqa prompt -q "北京企业注册流程"
  docqa prompt --ctx context.json
  docqa prompt --ctx context.json -q "换一个问题"`,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().StringVarP(&promptQuery, "query", "q", "", "question")
	promptCmd.Flags().StringVar(&promptCtx, "ctx", "", "path to packed context JSON file")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	if promptQuery == "" && promptCtx == "" {
		return fmt.Errorf("must specify --query or --ctx")
	}

	var packed domain.Context
	if promptCtx != "" {
		data, err := os.ReadFile(promptCtx)
		if err != nil {
			return fmt.Errorf("failed to read context file: %w", err)
		}
		if err := json.Unmarshal(data, &packed); err != nil {
			return fmt.Errorf("failed to parse context file: %w", err)
		}
	} else {
		cfg := GetConfig()
		p, err := openPipeline(cfg, GetRootDir())
		if err != nil {
			return err
		}
		defer p.Close()

		opts := answerOptions(cfg)
		result, err := p.retrieve.Retrieve(promptQuery, opts.NumResults, opts.ParagraphThreshold)
		if err != nil {
			return fmt.Errorf("retrieval failed: %w", err)
		}
		packed, err = p.pack.Assemble(promptQuery, result, opts.MaxContextTokens)
		if errors.Is(err, domain.ErrNoRelevantContent) {
			fmt.Fprintln(os.Stderr, "No relevant content found; the model would not be called.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("packing failed: %w", err)
		}
	}

	question := packed.Question
	if promptQuery != "" {
		question = promptQuery
	}

	prompt, err := llm.RenderPrompt(question, packed)
	if err != nil {
		return err
	}

	fmt.Printf("[system]\n%s\n\n[user]\n%s\n", GetConfig().Generator.SystemPrompt, prompt)
	return nil
}
