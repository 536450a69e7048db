package model

import "testing"

// TestSeverityString tests the String method of Severity.
func TestSeverityString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		severity Severity
		want     string
	}{
		{"info", SeverityInfo, "INFO"},
		{"low", SeverityLow, "LOW"},
		{"medium", SeverityMedium, "MEDIUM"},
		{"high", SeverityHigh, "HIGH"},
		{"critical", SeverityCritical, "CRITICAL"},
		{"unknown", Severity(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
			}
		})
	}
}

// TestSeverityOrdering verifies that severities compare in escalation order.
// HighestSeverityFailure relies on this ordering.
func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	if !(SeverityInfo < SeverityLow && SeverityLow < SeverityMedium &&
		SeverityMedium < SeverityHigh && SeverityHigh < SeverityCritical) {
		t.Error("severity constants are not in escalation order")
	}
}

// TestGetSeverity tests severity lookup for check types.
func TestGetSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		checkType string
		want      Severity
	}{
		{"engine status is critical", "engine_status", SeverityCritical},
		{"process complete is critical", "process_complete", SeverityCritical},
		{"upload complete is critical", "upload_complete", SeverityCritical},
		{"article persisted is critical", "article_persisted", SeverityCritical},
		{"chunk count is high", "chunk_count", SeverityHigh},
		{"version increment is high", "version_increment", SeverityHigh},
		{"review approve is high", "review_approve", SeverityHigh},
		{"toc anchors is medium", "toc_anchors", SeverityMedium},
		{"body h1 is medium", "body_h1", SeverityMedium},
		{"qa badges is medium", "qa_badges", SeverityMedium},
		{"figure caption is low", "figure_caption", SeverityLow},
		{"style diagnostics is low", "style_diagnostics", SeverityLow},
		{"engine features is info", "engine_features", SeverityInfo},
		{"unknown type defaults to info", "no_such_check", SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetSeverity(tt.checkType); got != tt.want {
				t.Errorf("GetSeverity(%q) = %v, want %v", tt.checkType, got, tt.want)
			}
		})
	}
}

// TestGetCheckInfo tests the full check metadata lookup.
func TestGetCheckInfo(t *testing.T) {
	t.Parallel()

	t.Run("known type has impact and recommendation", func(t *testing.T) {
		t.Parallel()

		info := GetCheckInfo("chunk_count")
		if info.Severity != SeverityHigh {
			t.Errorf("expected SeverityHigh, got %v", info.Severity)
		}
		if info.Impact == "" {
			t.Error("expected non-empty impact")
		}
		if info.Recommendation == "" {
			t.Error("expected non-empty recommendation")
		}
	})

	t.Run("unknown type returns default info", func(t *testing.T) {
		t.Parallel()

		info := GetCheckInfo("no_such_check")
		if info.Severity != SeverityInfo {
			t.Errorf("expected SeverityInfo, got %v", info.Severity)
		}
		if info.Impact == "" {
			t.Error("expected fallback impact text")
		}
	})

	t.Run("every mapped type has complete metadata", func(t *testing.T) {
		t.Parallel()

		for checkType, info := range checkInfoMapping {
			if info.Impact == "" {
				t.Errorf("check type %q has empty impact", checkType)
			}
			if info.Recommendation == "" {
				t.Errorf("check type %q has empty recommendation", checkType)
			}
		}
	})

	t.Run("mapping holds exactly the emitted check types", func(t *testing.T) {
		t.Parallel()

		// One entry per check type the suites emit. A key with no emitting
		// suite is dead grading metadata; keep this list in sync when
		// adding or removing checks.
		emitted := []string{
			"engine_status", "engine_features",
			"process_submit", "process_complete", "article_persisted",
			"upload_submit", "upload_complete", "asset_registered",
			"chunk_count", "chunk_headings",
			"body_h1", "toc_anchors", "ordered_lists", "code_blocks", "figure_caption",
			"qa_report_present", "qa_flags", "qa_badges",
			"style_diagnostics", "style_rerun",
			"version_increment", "version_diagnostics", "version_rerun",
			"review_run_created", "review_approve", "review_reject",
			"review_rerun", "review_media",
			"training_job", "training_articles",
		}

		if len(emitted) != len(checkInfoMapping) {
			t.Errorf("expected %d mapped types, got %d", len(emitted), len(checkInfoMapping))
		}
		for _, checkType := range emitted {
			if _, ok := checkInfoMapping[checkType]; !ok {
				t.Errorf("emitted check type %q has no grading entry", checkType)
			}
		}
	})
}
