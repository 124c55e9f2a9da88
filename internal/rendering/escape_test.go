package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeXML_EmptyString(t *testing.T) {
	assert.Equal(t, "", EscapeXML(""))
}

func TestEscapeXML_NoSpecialCharacters(t *testing.T) {
	text := "Clear and structured communication"
	assert.Equal(t, text, EscapeXML(text))
}

func TestEscapeXML_SpecialCharacters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R&D", "R&amp;D"},
		{"a < b > c", "a &lt; b &gt; c"},
		{`"quoted"`, "&quot;quoted&quot;"},
		{"it's", "it&apos;s"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeXML(tt.in))
		})
	}
}

func TestEscapeXML_DropsControlCharacters(t *testing.T) {
	assert.Equal(t, "ab\tc\n", EscapeXML("a\x00b\x07\tc\n"))
}

func TestEscapeXML_UnicodeCharacters(t *testing.T) {
	text := "résumé with unicode: α β γ"
	assert.Equal(t, text, EscapeXML(text))
}
