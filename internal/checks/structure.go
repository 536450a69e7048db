package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// StructureSuite inspects the HTML body of articles produced earlier in the
// run: heading hierarchy, anchor integrity, list and code block rendering,
// and figure wrapping. It submits nothing itself.
type StructureSuite struct{}

// NewStructureSuite creates the structure suite.
func NewStructureSuite() *StructureSuite {
	return &StructureSuite{}
}

// Name returns the suite name.
func (s *StructureSuite) Name() string {
	return "structure"
}

var structureChecks = []struct {
	checkType string
	name      string
}{
	{"body_h1", "Article bodies carry at most one top-level heading"},
	{"toc_anchors", "Internal anchors resolve to element IDs"},
	{"ordered_lists", "Procedure steps render as ordered lists"},
	{"code_blocks", "Code samples render inside pre/code blocks"},
	{"figure_caption", "Images are wrapped in figures with captions"},
}

// Run executes the structure checks against every article created by this
// run so far.
func (s *StructureSuite) Run(ctx context.Context, client *engine.Client, report *model.CheckReport) error {
	articles, err := client.ArticlesByRunID(ctx, report.RunID)
	if err != nil {
		for _, c := range structureChecks {
			report.AddResult(errorResult(s.Name(), c.checkType, c.name, "/api/content-library", err))
		}
		return nil
	}
	if len(articles) == 0 {
		for _, c := range structureChecks {
			report.AddResult(skipResult(s.Name(), c.checkType, c.name, "no articles from this run to inspect"))
		}
		return nil
	}

	var (
		multiH1    []string
		broken     []string
		noLists    []string
		bareCode   []string
		badFigures []string
		hasOL      bool
	)

	for _, a := range articles {
		doc, err := parseArticleHTML(a.Content)
		if err != nil {
			for _, c := range structureChecks {
				report.AddResult(errorResult(s.Name(), c.checkType, c.name, "/api/content-library", fmt.Errorf("article %s: %w", a.ID, err)))
			}
			return nil
		}

		if h1Count(doc) > 1 {
			multiH1 = append(multiH1, a.ID)
		}
		if anchors := brokenAnchors(doc); len(anchors) > 0 {
			broken = append(broken, fmt.Sprintf("%s (%s)", a.ID, strings.Join(anchors, ", ")))
		}
		if orderedListCount(doc) > 0 {
			hasOL = true
		} else {
			noLists = append(noLists, a.ID)
		}
		if n := bareCodeBlocks(doc); n > 0 {
			bareCode = append(bareCode, fmt.Sprintf("%s (%d)", a.ID, n))
		}
		if imgs, captionless := unwrappedImages(doc); imgs > 0 || captionless > 0 {
			badFigures = append(badFigures, fmt.Sprintf("%s (%d bare, %d captionless)", a.ID, imgs, captionless))
		}
	}

	report.AddResult(s.result("body_h1", "Article bodies carry at most one top-level heading",
		"no article with multiple H1 elements", multiH1,
		"articles with multiple top-level headings"))

	report.AddResult(s.result("toc_anchors", "Internal anchors resolve to element IDs",
		"every in-page link targets an existing element id", broken,
		"articles with dangling anchors"))

	// Procedure content is only present when a corpus document with steps
	// was processed this run; require at least one article to have it.
	olResult := model.CheckResult{
		Suite:    s.Name(),
		Type:     "ordered_lists",
		Name:     "Procedure steps render as ordered lists",
		Endpoint: "/api/content-library",
		Expected: "at least one article renders an ordered list",
		Actual:   fmt.Sprintf("%d of %d articles without ordered lists", len(noLists), len(articles)),
	}
	if hasOL {
		olResult.Status = model.StatusPass
	} else {
		olResult.Status = model.StatusFail
		olResult.Detail = "numbered procedure steps were flattened to plain text"
	}
	report.AddResult(olResult)

	report.AddResult(s.result("code_blocks", "Code samples render inside pre/code blocks",
		"no code sample outside a pre/code block", bareCode,
		"articles with unfenced code"))

	report.AddResult(s.result("figure_caption", "Images are wrapped in figures with captions",
		"every image inside a figure with a figcaption", badFigures,
		"articles with unwrapped or uncaptioned images"))

	return nil
}

// result builds a pass/fail result from a list of offending article IDs.
func (s *StructureSuite) result(checkType, name, expected string, offenders []string, detail string) model.CheckResult {
	r := model.CheckResult{
		Suite:    s.Name(),
		Type:     checkType,
		Name:     name,
		Endpoint: "/api/content-library",
		Expected: expected,
	}
	if len(offenders) == 0 {
		r.Status = model.StatusPass
		r.Actual = "no offending articles"
	} else {
		r.Status = model.StatusFail
		r.Actual = strings.Join(offenders, "; ")
		r.Detail = detail
	}
	return r
}
