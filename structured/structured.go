// Package structured turns a chat model into a typed extraction call:
// build a prompt, force a tool call, decode the arguments.
package structured

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type PromptBuilder[TInput any] func(ctx context.Context, input TInput) ([]*schema.Message, error)

type Chain[TInput, TOutput any] struct {
	PromptBuilder PromptBuilder[TInput]
	ChatModel     model.ToolCallingChatModel
	ToolInfo      *schema.ToolInfo
}

func NewChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	promptBuilder PromptBuilder[TInput],
	toolName string,
	toolDesc string,
) (*Chain[TInput, TOutput], error) {
	toolInfo, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &Chain[TInput, TOutput]{
		PromptBuilder: promptBuilder,
		ChatModel:     chatModel,
		ToolInfo:      toolInfo,
	}, nil
}

// Invoke runs the chain. When the model replies with plain content
// instead of the forced tool call, the content is parsed after
// stripping any markdown code fence; output that still fails to parse
// surfaces as an error so callers can degrade to "no new information".
func (s *Chain[TInput, TOutput]) Invoke(ctx context.Context, input TInput) (*TOutput, error) {
	messages, err := s.PromptBuilder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	response, err := s.ChatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{s.ToolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, s.ToolInfo.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}

	raw := ""
	if len(response.ToolCalls) > 0 {
		raw = response.ToolCalls[0].Function.Arguments
	} else {
		raw = StripCodeFence(response.Content)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty model response for tool %s", s.ToolInfo.Name)
	}

	var result TOutput
	if err := sonic.UnmarshalString(raw, &result); err != nil {
		return nil, fmt.Errorf("parse model output failed: %w", err)
	}
	return &result, nil
}

func (s *Chain[TInput, TOutput]) GetToolInfo() *schema.ToolInfo {
	return s.ToolInfo
}

// StripCodeFence removes a wrapping markdown code fence, with or
// without a language tag, leaving other text untouched.
func StripCodeFence(s string) string {
	out := strings.TrimSpace(s)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```")
	if idx := strings.Index(out, "\n"); idx >= 0 {
		first := strings.TrimSpace(out[:idx])
		// Drop a language tag like "json" on the opening fence line.
		if first != "" && !strings.ContainsAny(first, "{[") {
			out = out[idx+1:]
		}
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}
