package snapshot

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var hiddenStyle = regexp.MustCompile(`display:\s*none`)

// ExpandGrades rewrites a captured grades page so that the details of every
// unmuted assignment (comments, rubric, grade info) are shown, as if "Show
// All Details" had been clicked before the capture.
func ExpandGrades(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(contents))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	expandGrades(doc)

	var out bytes.Buffer
	for _, node := range doc.Nodes {
		err = html.Render(&out, node)
		if err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
	}
	return os.WriteFile(path, out.Bytes(), 0644)
}

func expandGrades(doc *goquery.Document) {
	button := doc.Find("#show_all_details_button").First()
	if button.Length() > 0 {
		button.AddClass("showAll")
		button.SetText("Hide All Details")
	}

	doc.Find("tr.student_assignment.editable").Each(func(_ int, row *goquery.Selection) {
		id := strings.TrimPrefix(row.AttrOr("id", ""), "submission_")
		if id == "" || strings.EqualFold(row.AttrOr("data-muted", ""), "true") {
			return
		}

		selectors := []string{
			"#comments_thread_" + id,
			"#rubric_" + id,
			"#grade_info_" + id,
			"#final_grade_info_" + id,
			".parent_assignment_id_" + id,
		}
		for _, selector := range selectors {
			doc.Find(selector).Each(func(_ int, el *goquery.Selection) {
				style := hiddenStyle.ReplaceAllString(el.AttrOr("style", ""), "")
				el.SetAttr("style", style)
			})
		}

		arrow := doc.Find("#parent_assignment_id_" + id + " i").First()
		if arrow.Length() > 0 {
			arrow.RemoveClass("icon-arrow-open-end").AddClass("icon-arrow-open-down")
		}
	})
}
