package scoring

// Score bounds per tier.
const (
	ATSFreeMin = 20
	ATSFreeMax = 59
	ATSPaidMin = 80
	ATSPaidMax = 95

	// Paid scores above this are reported as strong.
	atsStrongThreshold = 85
)

// ATSAnalysis is the premium breakdown for a resume.
type ATSAnalysis struct {
	KeywordsFound    int      `json:"keywords_found"`
	KeywordsMissing  int      `json:"keywords_missing"`
	FormattingScore  int      `json:"formatting_score"`
	ReadabilityScore int      `json:"readability_score"`
	SectionsPresent  []string `json:"sections_present"`
	SectionsMissing  []string `json:"sections_missing"`
	Recommendations  []string `json:"recommendations"`
}

// ATSPreview is what free users see in place of the breakdown.
type ATSPreview struct {
	Message            string   `json:"message"`
	AvailableInPremium []string `json:"available_in_premium"`
}

// ATSReport is the scored result for one resume.
type ATSReport struct {
	Score    int          `json:"score"`
	Paid     bool         `json:"paid"`
	Analysis *ATSAnalysis `json:"analysis,omitempty"`
	Preview  *ATSPreview  `json:"preview,omitempty"`
}

// ATSScore returns the score for a sanitized filename.
func ATSScore(filename string, paid bool) int {
	d := newDigest(filename)
	if paid {
		return d.ranged(1, 16, ATSPaidMin)
	}
	return d.ranged(0, 40, ATSFreeMin)
}

// ScoreATS builds the full report for a sanitized filename.
func ScoreATS(filename string, paid bool) ATSReport {
	score := ATSScore(filename, paid)
	if !paid {
		return ATSReport{
			Score: score,
			Preview: &ATSPreview{
				Message: "Upgrade to premium to get detailed analysis",
				AvailableInPremium: []string{
					"Keyword optimization suggestions",
					"Formatting improvements",
					"Section-wise analysis",
					"Industry-specific recommendations",
					"ATS compatibility score breakdown",
				},
			},
		}
	}

	d := newDigest(filename)
	analysis := &ATSAnalysis{
		KeywordsFound:    d.ranged(2, 11, 15),
		KeywordsMissing:  d.ranged(3, 6, 3),
		FormattingScore:  d.ranged(4, 21, 75),
		ReadabilityScore: d.ranged(5, 16, 80),
		SectionsPresent:  []string{"experience", "education", "skills", "summary"},
	}
	if score > atsStrongThreshold {
		analysis.SectionsMissing = []string{}
		analysis.Recommendations = []string{
			"Excellent keyword optimization",
			"Professional formatting maintained",
			"Strong ATS compatibility",
		}
	} else {
		analysis.SectionsMissing = []string{"certifications"}
		analysis.Recommendations = []string{
			"Add more industry-specific keywords",
			"Improve section organization",
			"Enhance formatting consistency",
		}
	}

	return ATSReport{Score: score, Paid: true, Analysis: analysis}
}
