package llm

import (
	"context"
	"fmt"

	"docqa/internal/domain"
	"docqa/internal/port"
)

var _ port.Generator = (*Echo)(nil)

// Echo answers without a model by listing the documents it was given.
// It is selected with provider "mock" for offline runs.
type Echo struct {
	name string
}

func NewEcho(name string) *Echo {
	if name == "" {
		name = "echo"
	}
	return &Echo{name: name}
}

func (e *Echo) ModelName() string {
	return e.name
}

func (e *Echo) Generate(ctx context.Context, question string, c domain.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("问题: %s\n参考文档: %s", question, c.ContentRelatedTitles), nil
}
