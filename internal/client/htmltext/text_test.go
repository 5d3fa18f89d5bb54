package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Hello   world ", "Hello world"},
		{"paragraph", "<p>Hello <b>there</b></p>\n", "Hello there"},
		{"entities", "Tom &amp; Jerry &#8211; cartoon", "Tom & Jerry – cartoon"},
		{"empty", "", ""},
		{"nested", "<div><p>One</p><p>Two</p></div>", "OneTwo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestFirstImage(t *testing.T) {
	src, ok := FirstImage(`<p>x</p><img src="/a.jpg"><img src="/b.jpg">`)
	assert.True(t, ok)
	assert.Equal(t, "/a.jpg", src)

	_, ok = FirstImage("<p>no images</p>")
	assert.False(t, ok)
}
