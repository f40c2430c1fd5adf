package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"

	"github.com/claimdesk/claimflow/claim"
)

// RecordSchemaJSON reflects the claim record into a JSON schema string
// for the oracle prompt.
func RecordSchemaJSON() (string, error) {
	schema := jsonschema.Reflect(&claim.Record{})
	schema.Title = "Insurance claim"
	schema.Description = "Structured fields describing one insurance claim."
	out, err := sonic.MarshalString(schema)
	if err != nil {
		return "", fmt.Errorf("marshal record schema: %w", err)
	}
	return out, nil
}

func formatMissingFieldsSection(fields []claim.Field) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Missing required fields:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Key")
	for _, f := range fields {
		_ = table.Append(f.DisplayName(), string(f))
	}
	_ = table.Render()
	return buf.String()
}

func formatDefaultsSection(d Defaults) string {
	if d.ClaimantName == "" && d.PolicyNumber == "" {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Known values (already verified, do not change):\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Key", "Value")
	if d.ClaimantName != "" {
		_ = table.Append("claimant_name", d.ClaimantName)
	}
	if d.PolicyNumber != "" {
		_ = table.Append("policy_number", d.PolicyNumber)
	}
	_ = table.Render()
	return buf.String()
}

func formatExtractRequest(in extractInput) (string, error) {
	sections := []string{
		fmt.Sprintf("# Current Date:\n%s", time.Now().Format(time.RFC3339)),
	}
	if s := formatDefaultsSection(in.Defaults); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, fmt.Sprintf("# User message:\n%s", in.Text))
	return strings.Join(sections, "\n\n"), nil
}

func formatFillRequest(in fillInput) (string, error) {
	currentJSON, err := sonic.MarshalString(in.Current)
	if err != nil {
		return "", fmt.Errorf("marshal current record: %w", err)
	}
	sections := []string{
		fmt.Sprintf("# Current Date:\n%s", time.Now().Format(time.RFC3339)),
		fmt.Sprintf("# Current claim record JSON:\n```json\n%s\n```", currentJSON),
	}
	if s := formatMissingFieldsSection(in.Missing); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, fmt.Sprintf("# User message:\n%s", in.Text))
	return strings.Join(sections, "\n\n"), nil
}
