package pixiv

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WorksCountText finds the displayed works total on a profile page: the
// span two div levels below the parent of the "Works" heading.
func WorksCountText(doc *goquery.Document) (string, bool) {
	heading := doc.Find("h2").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == "Works"
	})
	if heading.Length() == 0 {
		return "", false
	}

	span := heading.Parent().ChildrenFiltered("div").ChildrenFiltered("div").ChildrenFiltered("span").First()
	if span.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(span.Text()), true
}
