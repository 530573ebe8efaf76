package scoring

import (
	"regexp"
	"strings"
)

const (
	LinkedInFreeMin = 30
	LinkedInFreeMax = 65
	LinkedInPaidMin = 70
	LinkedInPaidMax = 95

	LinkedInSectionPaidMin = 70
	LinkedInSectionPaidMax = 100

	// Free sections below this get "Needs improvement".
	linkedInBasicThreshold = 60
	// Paid sections below this get a recommendation; above it, praise.
	linkedInDetailThreshold = 80
)

var linkedInURLRegex = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/in/[a-zA-Z0-9-]+/?$`)

// Section names in report order.
var LinkedInSections = []string{
	"heading", "profile_photo", "banner", "skills", "experience", "connections", "education",
}

type sectionText struct {
	good, improve, recommendation string
}

var linkedInSectionText = map[string]sectionText{
	"heading": {
		"Excellent professional headline",
		"Consider adding more industry-specific keywords",
		"Optimize your professional headline with industry keywords",
	},
	"profile_photo": {
		"Professional photo present",
		"Consider updating to a more professional headshot",
		"Update your profile photo to a professional headshot",
	},
	"banner": {
		"Great custom banner",
		"Consider customizing your banner to reflect your personal brand",
		"Customize your LinkedIn banner to reflect your personal brand",
	},
	"skills": {
		"Comprehensive skills section",
		"Add more relevant skills and seek endorsements",
		"Add more relevant skills and get endorsements",
	},
	"experience": {
		"Detailed experience with achievements",
		"Add more specific achievements and metrics",
		"Enhance your experience section with achievements and metrics",
	},
	"connections": {
		"Strong professional network",
		"Expand your network by connecting with industry professionals",
		"Expand your professional network by connecting with industry peers",
	},
	"education": {
		"Complete education information",
		"Add more details to your education section",
		"Complete your education section with relevant details",
	},
}

// SectionFeedback is one scored section of a premium review.
type SectionFeedback struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// LinkedInReport is the scored result for one profile URL.
type LinkedInReport struct {
	OverallScore     int                        `json:"overall_score"`
	Paid             bool                       `json:"paid"`
	DetailedScores   map[string]int             `json:"detailed_scores,omitempty"`
	DetailedFeedback map[string]SectionFeedback `json:"detailed_feedback,omitempty"`
	BasicFeedback    map[string]string          `json:"basic_feedback,omitempty"`
	Recommendations  []string                   `json:"recommendations"`
}

// NormalizeLinkedInURL trims the URL and reports whether it is a public
// profile link.
func NormalizeLinkedInURL(raw string) (string, bool) {
	url := strings.TrimSpace(raw)
	return url, linkedInURLRegex.MatchString(url)
}

// LinkedInSectionScores returns the per-section scores for a tier.
func LinkedInSectionScores(profileURL string, paid bool) map[string]int {
	d := newDigest(profileURL)
	scores := make(map[string]int, len(LinkedInSections))
	for i, name := range LinkedInSections {
		if paid {
			scores[name] = d.ranged(i+1, 31, LinkedInSectionPaidMin)
		} else {
			scores[name] = d.ranged(i+1, 36, LinkedInFreeMin)
		}
	}
	return scores
}

// ScoreLinkedIn builds the report for an already validated profile URL.
func ScoreLinkedIn(profileURL string, paid bool) LinkedInReport {
	d := newDigest(profileURL)
	sections := LinkedInSectionScores(profileURL, paid)

	if !paid {
		basic := map[string]string{"overall": "Consider upgrading for detailed recommendations"}
		for _, name := range []string{"heading", "profile_photo", "banner"} {
			if sections[name] < linkedInBasicThreshold {
				basic[name] = "Needs improvement"
			} else {
				basic[name] = "Good"
			}
		}
		return LinkedInReport{
			OverallScore:  d.ranged(0, 36, LinkedInFreeMin),
			BasicFeedback: basic,
			Recommendations: []string{
				"Upgrade to premium for detailed recommendations",
				"Get personalized improvement suggestions",
				"Access industry-specific optimization tips",
			},
		}
	}

	feedback := make(map[string]SectionFeedback, len(sections))
	var recommendations []string
	for _, name := range LinkedInSections {
		score := sections[name]
		text := linkedInSectionText[name]
		fb := SectionFeedback{Score: score, Feedback: text.improve}
		if score > linkedInDetailThreshold {
			fb.Feedback = text.good
		}
		feedback[name] = fb
		if score < linkedInDetailThreshold {
			recommendations = append(recommendations, text.recommendation)
		}
	}
	if len(recommendations) == 0 {
		recommendations = []string{"Your profile looks great! Keep engaging with your network."}
	}

	return LinkedInReport{
		OverallScore:     d.ranged(0, 26, LinkedInPaidMin),
		Paid:             true,
		DetailedScores:   sections,
		DetailedFeedback: feedback,
		Recommendations:  recommendations,
	}
}
