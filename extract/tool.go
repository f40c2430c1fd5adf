package extract

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/claimdesk/claimflow/claim"
	"github.com/claimdesk/claimflow/structured"
)

const (
	extractToolName = "record_claim_fields"
	extractToolDesc = "Record the insurance-claim fields found in the user's message. Emit every key; use null when the message gives no value."

	fillToolName = "fill_missing_claim_fields"
	fillToolDesc = "Return the updated full claim record after absorbing the user's latest message. Only missing fields may change."
)

type extractInput struct {
	Text     string
	Defaults Defaults
}

type fillInput struct {
	Text    string
	Current *claim.Record
	Missing []claim.Field
}

// ToolBased drives the chat model through forced tool calls, one chain
// per oracle mode.
type ToolBased struct {
	extractChain *structured.Chain[extractInput, claim.Record]
	fillChain    *structured.Chain[fillInput, claim.Record]
}

func NewToolBased(chatModel model.ToolCallingChatModel) (*ToolBased, error) {
	schemaJSON, err := RecordSchemaJSON()
	if err != nil {
		return nil, err
	}
	extractChain, err := structured.NewChain[extractInput, claim.Record](
		chatModel,
		buildExtractPrompt(schemaJSON),
		extractToolName,
		extractToolDesc,
	)
	if err != nil {
		return nil, fmt.Errorf("create extract chain: %w", err)
	}
	fillChain, err := structured.NewChain[fillInput, claim.Record](
		chatModel,
		buildFillPrompt(schemaJSON),
		fillToolName,
		fillToolDesc,
	)
	if err != nil {
		return nil, fmt.Errorf("create gap-fill chain: %w", err)
	}
	return &ToolBased{
		extractChain: extractChain,
		fillChain:    fillChain,
	}, nil
}

func (e *ToolBased) Extract(ctx context.Context, text string, defaults Defaults) (*claim.Record, error) {
	rec, err := e.extractChain.Invoke(ctx, extractInput{Text: text, Defaults: defaults})
	if err != nil {
		return nil, fmt.Errorf("initial extraction: %w", err)
	}
	return rec, nil
}

func (e *ToolBased) FillMissing(ctx context.Context, current *claim.Record, missing []claim.Field, text string) (*claim.Record, error) {
	rec, err := e.fillChain.Invoke(ctx, fillInput{Text: text, Current: current, Missing: missing})
	if err != nil {
		return nil, fmt.Errorf("gap-fill extraction: %w", err)
	}
	return rec, nil
}

func buildExtractPrompt(schemaJSON string) structured.PromptBuilder[extractInput] {
	systemPrompt := fmt.Sprintf(`You are an extraction engine for an insurance-claim intake assistant.

Read the user's message and pull out the claim fields it mentions. The message may be a free paragraph or explicit "field: value" lines.

Rules:
- Emit every key of the schema; use null for anything the message does not state. Never invent values.
- Dates go out as YYYY-MM-DD. Resolve relative dates like "yesterday" against the current date given below.
- claim_amount is the bare number as a string, no currency symbols.
- Known values listed below are already verified; copy them through unchanged.

Schema of the record to produce:
%s

Call the '%s' tool with the result.`, schemaJSON, extractToolName)

	return func(ctx context.Context, in extractInput) ([]*schema.Message, error) {
		message, err := formatExtractRequest(in)
		if err != nil {
			return nil, fmt.Errorf("format extract request: %w", err)
		}
		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(message),
		}, nil
	}
}

func buildFillPrompt(schemaJSON string) structured.PromptBuilder[fillInput] {
	systemPrompt := fmt.Sprintf(`You are an extraction engine for an insurance-claim intake assistant.

A claim record is partially filled. The user's latest message is targeted at the fields that are still missing.

Rules:
- Return the FULL updated record, every key present.
- Only the listed missing fields may change. Never overwrite an existing non-null value and never set a filled field back to null.
- Use null for missing fields the message still does not answer. Never invent values.
- Dates go out as YYYY-MM-DD; claim_amount is the bare number as a string.

Schema of the record to produce:
%s

Call the '%s' tool with the result.`, schemaJSON, fillToolName)

	return func(ctx context.Context, in fillInput) ([]*schema.Message, error) {
		message, err := formatFillRequest(in)
		if err != nil {
			return nil, fmt.Errorf("format gap-fill request: %w", err)
		}
		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(message),
		}, nil
	}
}
