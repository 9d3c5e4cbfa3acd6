package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	cases := map[string]string{
		"  plain text  ":                           "plain text",
		"Laptop <b>battery</b> swelling":           "Laptop battery swelling",
		"Case doesn't close":                       "Case doesn't close",
		"a < b & c":                                "a < b & c",
		"&lt;script&gt;alert(1)&lt;/script&gt;":    "",
		"&amp;lt;b&amp;gt;bold&amp;lt;/b&amp;gt;": "bold",
		"<img src=x onerror=alert(1)>":             "",
	}
	for in, want := range cases {
		got := clean(in)
		assert.Equal(t, want, got, in)
		assert.NotContains(t, got, "<script")
	}
}

func TestCleanAllDropsEmpty(t *testing.T) {
	assert.Equal(t, []string{"a.png"}, cleanAll([]string{" a.png ", "<br>", ""}))
}
