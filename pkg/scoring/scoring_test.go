package scoring

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexPair(t *testing.T, id string, i int) int {
	t.Helper()
	sum := md5.Sum([]byte(id))
	h := hex.EncodeToString(sum[:])
	v, err := strconv.ParseUint(h[2*i:2*i+2], 16, 8)
	require.NoError(t, err)
	return int(v)
}

func TestATSScoreFormula(t *testing.T) {
	name := "resume.pdf"
	assert.Equal(t, hexPair(t, name, 0)%40+20, ATSScore(name, false))
	assert.Equal(t, hexPair(t, name, 1)%16+80, ATSScore(name, true))
}

func TestATSScoreRangesAndDeterminism(t *testing.T) {
	for i := 0; i < 500; i++ {
		name := fmt.Sprintf("candidate_%d.docx", i)

		free := ATSScore(name, false)
		paid := ATSScore(name, true)
		assert.GreaterOrEqual(t, free, ATSFreeMin)
		assert.LessOrEqual(t, free, ATSFreeMax)
		assert.GreaterOrEqual(t, paid, ATSPaidMin)
		assert.LessOrEqual(t, paid, ATSPaidMax)
		assert.Less(t, free, paid)

		assert.Equal(t, free, ATSScore(name, false))
		if diff := cmp.Diff(ScoreATS(name, true), ScoreATS(name, true)); diff != "" {
			t.Fatalf("paid report not deterministic (-first +second):\n%s", diff)
		}
	}
}

func TestScoreATSTiers(t *testing.T) {
	t.Run("free report only previews premium", func(t *testing.T) {
		report := ScoreATS("resume.pdf", false)
		assert.False(t, report.Paid)
		assert.Nil(t, report.Analysis)
		require.NotNil(t, report.Preview)
		assert.Equal(t, "Upgrade to premium to get detailed analysis", report.Preview.Message)
		assert.Len(t, report.Preview.AvailableInPremium, 5)
	})

	t.Run("paid breakdown stays in bounds", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			report := ScoreATS(fmt.Sprintf("cv-%d.pdf", i), true)
			require.NotNil(t, report.Analysis)
			a := report.Analysis
			assert.True(t, a.KeywordsFound >= 15 && a.KeywordsFound <= 25)
			assert.True(t, a.KeywordsMissing >= 3 && a.KeywordsMissing <= 8)
			assert.True(t, a.FormattingScore >= 75 && a.FormattingScore <= 95)
			assert.True(t, a.ReadabilityScore >= 80 && a.ReadabilityScore <= 95)
			if report.Score > 85 {
				assert.Empty(t, a.SectionsMissing)
				assert.Contains(t, a.Recommendations, "Strong ATS compatibility")
			} else {
				assert.Equal(t, []string{"certifications"}, a.SectionsMissing)
				assert.Contains(t, a.Recommendations, "Add more industry-specific keywords")
			}
		}
	})
}

func TestNormalizeLinkedInURL(t *testing.T) {
	valid := []string{
		"https://www.linkedin.com/in/jane-doe",
		"http://linkedin.com/in/jane123/",
		"  https://linkedin.com/in/a-b-c  ",
	}
	for _, raw := range valid {
		_, ok := NormalizeLinkedInURL(raw)
		assert.True(t, ok, raw)
	}

	invalid := []string{
		"",
		"https://linkedin.com/company/acme",
		"https://www.linkedin.com/in/jane_doe",
		"ftp://linkedin.com/in/jane",
		"https://linkedin.com.evil.io/in/jane",
		"https://linkedin.com/in/jane/details",
	}
	for _, raw := range invalid {
		_, ok := NormalizeLinkedInURL(raw)
		assert.False(t, ok, raw)
	}

	url, _ := NormalizeLinkedInURL("  https://linkedin.com/in/x  ")
	assert.Equal(t, "https://linkedin.com/in/x", url)
}

func TestLinkedInScoreFormula(t *testing.T) {
	url := "https://www.linkedin.com/in/jane-doe"

	free := ScoreLinkedIn(url, false)
	assert.Equal(t, hexPair(t, url, 0)%36+30, free.OverallScore)

	paid := ScoreLinkedIn(url, true)
	assert.Equal(t, hexPair(t, url, 0)%26+70, paid.OverallScore)
	for i, name := range LinkedInSections {
		assert.Equal(t, hexPair(t, url, i+1)%31+70, paid.DetailedScores[name], name)
	}
}

func TestLinkedInRangesAndFeedback(t *testing.T) {
	for i := 0; i < 300; i++ {
		url := fmt.Sprintf("https://www.linkedin.com/in/user-%d", i)

		free := ScoreLinkedIn(url, false)
		assert.True(t, free.OverallScore >= LinkedInFreeMin && free.OverallScore <= LinkedInFreeMax)
		assert.Nil(t, free.DetailedScores)
		assert.Len(t, free.BasicFeedback, 4)

		freeSections := LinkedInSectionScores(url, false)
		if freeSections["heading"] < 60 {
			assert.Equal(t, "Needs improvement", free.BasicFeedback["heading"])
		} else {
			assert.Equal(t, "Good", free.BasicFeedback["heading"])
		}

		paid := ScoreLinkedIn(url, true)
		assert.True(t, paid.OverallScore >= LinkedInPaidMin && paid.OverallScore <= LinkedInPaidMax)
		assert.Less(t, free.OverallScore, paid.OverallScore)
		require.Len(t, paid.DetailedScores, 7)
		require.Len(t, paid.DetailedFeedback, 7)
		require.NotEmpty(t, paid.Recommendations)

		low := 0
		for _, name := range LinkedInSections {
			s := paid.DetailedScores[name]
			assert.True(t, s >= LinkedInSectionPaidMin && s <= LinkedInSectionPaidMax)
			if s < 80 {
				low++
			}
		}
		if low == 0 {
			assert.Equal(t, []string{"Your profile looks great! Keep engaging with your network."}, paid.Recommendations)
		} else {
			assert.Len(t, paid.Recommendations, low)
		}
	}
}
