package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Hello World":                     "hello-world",
		"  Resume Tips: 10 Ways to WIN! ": "resume-tips-10-ways-to-win",
		"Café Résumé Guide":               "cafe-resume-guide",
		"already-a-slug":                  "already-a-slug",
		"multiple   ---   separators":     "multiple-separators",
		"!!!":                             Fallback,
		"":                                Fallback,
		"日本語":                             Fallback,
	}

	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Make(in))
		})
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "hello-world-a1b2c3", WithSuffix("hello-world", "A1B2C3"))
	assert.Equal(t, "hello-world", WithSuffix("hello-world", "???"))
}
