package neighbourhood

import "github.com/microcosm-cc/bluemonday"

// richText keeps the formatting forces use in descriptions and strips
// scripts and event handlers.
var richText = newRichTextPolicy()

func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoReferrerOnLinks(true)
	return p
}

// SanitizeRichText makes upstream HTML safe to inject into a page.
func SanitizeRichText(s string) string {
	return richText.Sanitize(s)
}
