package generate

import (
	"fmt"

	"github.com/sells-group/site-analyzer/internal/extract"
	"github.com/sells-group/site-analyzer/internal/model"
)

// Output caps per task.
const (
	LeadQualificationMaxTokens int64 = 150
	OutreachEmailMaxTokens     int64 = 300
	OutreachDMMaxTokens        int64 = 150
)

// dmReportRunes bounds how much of the issue report a DM prompt carries.
const dmReportRunes = 200

func leadQualificationPrompt(a *model.AnalysisResult) string {
	return fmt.Sprintf(`Based on this website analysis, determine if this is a good lead for website redesign services:

Website: %s
Business Name: %s
Issues Found: %s

Consider:
- Local businesses with poor web presence are prime candidates
- Missing contact info, poor mobile experience, slow loading, unprofessional appearance are key indicators
- DIY website builders often indicate a business ready for professional help

Respond with "Yes" or "No" and provide a 2-3 sentence rationale focusing on how these issues are likely costing them customers and business opportunities.`,
		a.URL, a.BusinessName, a.Report)
}

func outreachEmailPrompt(a *model.AnalysisResult) string {
	return fmt.Sprintf(`Write a professional outreach email for a web design service targeting this local business:

Website: %s
Business: %s
Issues Found: %s

Email should:
- Be friendly but professional
- Mention 2-3 specific issues found on their site and how they impact customer acquisition
- Explain how these issues are likely costing them business
- Offer to help improve their online presence
- Include a soft call-to-action
- Be 150-200 words
- Have a subject line

Format as:
Subject: [subject line]

[email body]`,
		a.URL, a.BusinessName, a.Report)
}

func outreachDMPrompt(a *model.AnalysisResult) string {
	return fmt.Sprintf(`Write a brief, friendly social media DM for this local business:

Business: %s
Website Issues: %s

DM should:
- Be casual and friendly
- Mention you noticed their website and how it might be affecting their business
- Offer help in a non-pushy way focusing on customer acquisition
- Be under 100 words
- Feel like a genuine message from one business owner to another`,
		a.BusinessName, extract.Excerpt(a.Report, dmReportRunes))
}
