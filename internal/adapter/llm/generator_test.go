package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"docqa/config"
	"docqa/internal/domain"
)

type fakeModel struct {
	messages []llms.MessageContent
	options  llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	for _, opt := range options {
		opt(&m.options)
	}
	return m.resp, m.err
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func textOf(t *testing.T, mc llms.MessageContent) string {
	t.Helper()
	require.Len(t, mc.Parts, 1)
	part, ok := mc.Parts[0].(llms.TextContent)
	require.True(t, ok)
	return part.Text
}

func testContext() domain.Context {
	return domain.Context{
		Question:             "北京企业注册流程",
		Body:                 "内容相关文档：\n北京企业注册.docx\n注册流程分为三步\n\n",
		ContentRelatedTitles: "北京企业注册.docx",
	}
}

func TestChatGeneratorGenerate(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "\n分三步办理。\n"}},
	}}
	cfg := config.DefaultConfig().Generator
	g := NewChatGenerator(model, cfg, nil)

	answer, err := g.Generate(context.Background(), "北京企业注册流程", testContext())
	require.NoError(t, err)
	assert.Equal(t, "分三步办理。", answer)
	assert.Equal(t, cfg.Model, g.ModelName())

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, "你是一名营商政策专家。", textOf(t, model.messages[0]))
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	user := textOf(t, model.messages[1])
	assert.Contains(t, user, "问题: 北京企业注册流程")
	assert.Contains(t, user, "注册流程分为三步")

	assert.Equal(t, 512, model.options.MaxTokens)
	assert.InDelta(t, 0.7, model.options.Temperature, 1e-9)
}

func TestChatGeneratorErrors(t *testing.T) {
	cfg := config.DefaultConfig().Generator

	boom := errors.New("connection refused")
	g := NewChatGenerator(&fakeModel{err: boom}, cfg, nil)
	_, err := g.Generate(context.Background(), "q", testContext())
	assert.ErrorIs(t, err, boom)

	g = NewChatGenerator(&fakeModel{resp: &llms.ContentResponse{}}, cfg, nil)
	_, err = g.Generate(context.Background(), "q", testContext())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := config.DefaultConfig().Generator

	cfg.Provider = "mock"
	g, err := New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &Echo{}, g)

	cfg.Provider = "ollama"
	g, err = New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &ChatGenerator{}, g)

	cfg.Provider = "openai"
	cfg.BaseURL = "http://localhost:8080/v1"
	g, err = New(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &ChatGenerator{}, g)

	cfg.Provider = "bard"
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func TestEcho(t *testing.T) {
	e := NewEcho("")
	assert.Equal(t, "echo", e.ModelName())

	answer, err := e.Generate(context.Background(), "北京企业注册流程", testContext())
	require.NoError(t, err)
	assert.Contains(t, answer, "北京企业注册流程")
	assert.Contains(t, answer, "北京企业注册.docx")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Generate(ctx, "q", testContext())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderPrompt(t *testing.T) {
	prompt, err := RenderPrompt("上海税务登记", domain.Context{Body: "正文"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "问题: 上海税务登记")
	assert.Contains(t, prompt, "上下文:\n正文")
}
