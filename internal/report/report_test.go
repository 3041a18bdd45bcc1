package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/site-analyzer/internal/model"
)

func testBundle() *model.Bundle {
	return &model.Bundle{
		Analysis: model.AnalysisResult{
			ID:           uuid.MustParse("6f1c1d1e-8a55-4b8e-9d6a-0c2b9b1f4e21"),
			URL:          "https://acme-plumbing.com/services",
			Score:        3,
			BaseScore:    6,
			Penalties:    model.Penalties{ThinContent: 2, FewImages: 1},
			Report:       "Issues found:\n• No visible phone number found.",
			BusinessName: "Acme | Plumbing",
			BusinessType: "Plumbing Company",
			PageText:     "Acme Plumbing",
			LoadTime:     2.345,
			Checks: []model.CheckOutcome{
				{Name: "SSL Certificate", Passed: true},
				{Name: "Phone Number", Passed: false, Reason: "No visible phone number found."},
			},
			AnalyzedAt: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		Content: &model.GeneratedContent{
			LeadQualification: "Yes. Missing phone number costs calls.",
			RebuildPrompt:     "Build a site for acme-plumbing.com",
			OutreachEmail:     "Subject: Quick idea\n\nHi there,",
			OutreachDM:        "Hey! Saw your site.",
		},
	}
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testBundle(), FormatText))

	want := `Website Analysis Report
Generated: 2025-03-01 09:30:00
Website: https://acme-plumbing.com/services

OVERALL SCORE: 3/10

IS THIS A GOOD LEAD?
Yes. Missing phone number costs calls.

PLAIN-ENGLISH REPORT:
Issues found:
• No visible phone number found.

SITE BUILDER PROMPT:
Build a site for acme-plumbing.com

OUTREACH EMAIL:
Subject: Quick idea

Hi there,

OUTREACH DM:
Hey! Saw your site.
`
	assert.Equal(t, want, buf.String())
}

func TestRender_TextWithoutContent(t *testing.T) {
	b := testBundle()
	b.Content = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, b, FormatText))

	out := buf.String()
	assert.Contains(t, out, "OVERALL SCORE: 3/10")
	assert.Contains(t, out, "PLAIN-ENGLISH REPORT:")
	assert.NotContains(t, out, "IS THIS A GOOD LEAD?")
	assert.NotContains(t, out, "OUTREACH EMAIL:")
	assert.True(t, strings.HasSuffix(out, "phone number found.\n"))
}

func TestRender_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testBundle(), FormatMarkdown))

	out := buf.String()
	assert.Contains(t, out, "# Website Analysis Report")
	assert.Contains(t, out, "**3/10** (low)")
	assert.Contains(t, out, `Acme \| Plumbing`)
	assert.Contains(t, out, "## Checks")
	assert.Contains(t, out, "No visible phone number found.")
	assert.Contains(t, out, "1 of 2 checks passed.")
	assert.Contains(t, out, "## Quality Penalties")
	assert.Contains(t, out, "Thin content")
	assert.NotContains(t, out, "Under construction")
	assert.Contains(t, out, "**-3**")
	assert.Contains(t, out, "## Outreach Email")
	assert.Contains(t, out, "```text")
	assert.Contains(t, out, "Subject: Quick idea")
}

func TestRender_MarkdownFallbackSections(t *testing.T) {
	tests := []struct {
		name        string
		edit        func(c *model.GeneratedContent)
		wantWarning string
		wantCode    []string
	}{
		{
			name: "email failed",
			edit: func(c *model.GeneratedContent) {
				c.OutreachEmail = "Unable to generate outreach email: dial tcp: connection refused"
			},
			wantWarning: "> [!WARNING]  \n> Unable to generate outreach email: dial tcp: connection refused",
			wantCode:    []string{"Build a site for acme-plumbing.com", "Hey! Saw your site."},
		},
		{
			name: "lead qualification failed",
			edit: func(c *model.GeneratedContent) {
				c.LeadQualification = "Unable to generate lead qualification: invalid\napi key"
			},
			wantWarning: "> [!WARNING]  \n> Unable to generate lead qualification: invalid api key",
			wantCode:    []string{"Subject: Quick idea", "Hey! Saw your site."},
		},
		{
			name: "rebuild prompt failed",
			edit: func(c *model.GeneratedContent) {
				c.RebuildPrompt = "Unable to generate rebuild prompt: open template.txt: no such file or directory"
			},
			wantWarning: "> [!WARNING]  \n> Unable to generate rebuild prompt: open template.txt",
			wantCode:    []string{"Subject: Quick idea"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBundle()
			tt.edit(b.Content)

			var buf bytes.Buffer
			require.NoError(t, Render(&buf, b, FormatMarkdown))

			out := buf.String()
			assert.Contains(t, out, tt.wantWarning)
			assert.Equal(t, 1, strings.Count(out, "[!WARNING]"))
			for _, body := range tt.wantCode {
				assert.Contains(t, out, "```text\n"+body)
			}
		})
	}
}

func TestRender_MarkdownNoPenalties(t *testing.T) {
	b := testBundle()
	b.Analysis.Penalties = model.Penalties{}
	b.Analysis.Score = 8
	b.Content = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, b, FormatMarkdown))

	out := buf.String()
	assert.Contains(t, out, "None.")
	assert.Contains(t, out, "(high)")
	assert.NotContains(t, out, "## Outreach Email")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testBundle(), FormatJSON))

	var got model.Bundle
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got.Analysis.Score)
	assert.Equal(t, "6f1c1d1e-8a55-4b8e-9d6a-0c2b9b1f4e21", got.Analysis.ID.String())
	require.NotNil(t, got.Content)
	assert.Equal(t, "Hey! Saw your site.", got.Content.OutreachDM)
	assert.Contains(t, buf.String(), `"business_type": "Plumbing Company"`)
}

func TestRender_JSONOmitsMissingContent(t *testing.T) {
	b := testBundle()
	b.Content = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, b, FormatJSON))
	assert.NotContains(t, buf.String(), `"content"`)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testBundle(), FormatYAML))

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &raw))
	analysis, ok := raw["analysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, analysis["score"])
	assert.Equal(t, "https://acme-plumbing.com/services", analysis["url"])
	assert.Contains(t, buf.String(), "lead_qualification:")
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, testBundle(), Format("pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "pdf"`)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"md", FormatMarkdown, false},
		{" markdown ", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilenameFor(t *testing.T) {
	tests := []struct {
		url    string
		format Format
		want   string
	}{
		{"https://acme.com", FormatText, "website_analysis_acme.com.txt"},
		{"http://acme.com/about/team", FormatText, "website_analysis_acme.com_about_team.txt"},
		{"acme.com/", FormatText, "website_analysis_acme.com_.txt"},
		{"https://acme.com", FormatMarkdown, "website_analysis_acme.com.md"},
		{"https://acme.com", FormatYAML, "website_analysis_acme.com.yaml"},
		{"https://acme.com", FormatJSON, "website_analysis_acme.com.json"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format)+" "+tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameFor(tt.url, tt.format))
		})
	}
}
