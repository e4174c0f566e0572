package model

import "strings"

// ContentType is the display vocabulary used by API clients.
type ContentType string

const (
	ContentTypePost       ContentType = "POST"
	ContentTypeArticle    ContentType = "ARTICLE"
	ContentTypePage       ContentType = "PAGE"
	ContentTypeNewsletter ContentType = "NEWSLETTER"
)

// ContentKind is the storage vocabulary. It evolved separately from ContentType and the two
// are translated at the service boundary only.
type ContentKind string

const (
	ContentKindBlogPost   ContentKind = "blog_post"
	ContentKindArticle    ContentKind = "article"
	ContentKindPage       ContentKind = "page"
	ContentKindNewsletter ContentKind = "newsletter"
)

// DefaultContentKind is used for any display type that has no storage counterpart.
const DefaultContentKind = ContentKindArticle

// ParseContentType normalizes user input ("post", " Article ") into a ContentType.
// Unknown names are returned upper-cased and resolve to DefaultContentKind.
func ParseContentType(s string) ContentType {
	return ContentType(strings.ToUpper(strings.TrimSpace(s)))
}

// Kind maps a display type to its storage kind. Unrecognized types never fail a write.
func (t ContentType) Kind() ContentKind {
	switch t {
	case ContentTypePost:
		return ContentKindBlogPost
	case ContentTypeArticle:
		return ContentKindArticle
	case ContentTypePage:
		return ContentKindPage
	case ContentTypeNewsletter:
		return ContentKindNewsletter
	default:
		return DefaultContentKind
	}
}

// Type maps a storage kind back to the display vocabulary.
func (k ContentKind) Type() ContentType {
	switch k {
	case ContentKindBlogPost:
		return ContentTypePost
	case ContentKindArticle:
		return ContentTypeArticle
	case ContentKindPage:
		return ContentTypePage
	case ContentKindNewsletter:
		return ContentTypeNewsletter
	default:
		return ContentTypeArticle
	}
}

// ContentTypes lists every display type, in display order.
func ContentTypes() []ContentType {
	return []ContentType{ContentTypePost, ContentTypeArticle, ContentTypePage, ContentTypeNewsletter}
}
