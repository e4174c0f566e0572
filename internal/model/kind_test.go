package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType_Kind(t *testing.T) {
	tests := []struct {
		in   ContentType
		want ContentKind
	}{
		{ContentTypePost, ContentKindBlogPost},
		{ContentTypeArticle, ContentKindArticle},
		{ContentTypePage, ContentKindPage},
		{ContentTypeNewsletter, ContentKindNewsletter},
		{ContentType("PODCAST"), DefaultContentKind},
		{ContentType(""), DefaultContentKind},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Kind())
		})
	}
}

func TestContentKind_RoundTrip(t *testing.T) {
	for _, typ := range ContentTypes() {
		assert.Equal(t, typ, typ.Kind().Type())
	}
	assert.Equal(t, ContentTypeArticle, ContentKind("unknown").Type())
}

func TestParseContentType(t *testing.T) {
	assert.Equal(t, ContentTypePost, ParseContentType(" post "))
	assert.Equal(t, ContentKindNewsletter, ParseContentType("Newsletter").Kind())
}
