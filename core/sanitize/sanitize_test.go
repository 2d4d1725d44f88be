package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	cases := map[string]string{
		"  Ann  ":                        "Ann",
		"<script>alert(1)</script>":      ">alert(1)>",
		"click JavaScript:alert(1)":      "click alert(1)",
		"jAvAsCrIpT:void(0)":             "void(0)",
		"plain text":                     "plain text",
		"":                               "",
		"\t<SCRIPT>x":                    "<SCRIPT>x", // tag removal is case-sensitive
		"a@b.com javascript:javascript:": "a@b.com ",
	}
	for in, want := range cases {
		assert.Equal(t, want, Clean(in), "input %q", in)
	}
}

func TestCleanIsIdempotentOnSafeInput(t *testing.T) {
	in := "Ocean Drive - live"
	assert.Equal(t, Clean(in), Clean(Clean(in)))
}
