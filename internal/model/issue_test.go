package model

import "testing"

func issue(name string, severity Severity, path string) Issue {
	return Issue{
		IssueType:  IssueType{Name: name},
		Severity:   severity,
		Confidence: ConfidenceCertain,
		Path:       path,
	}
}

// TestGroupBySeverity tests grouping order and stability.
func TestGroupBySeverity(t *testing.T) {
	t.Parallel()

	t.Run("groups in first occurrence order", func(t *testing.T) {
		t.Parallel()

		issues := []Issue{
			issue("SQL injection", SeverityHigh, "/login"),
			issue("Cookie without HttpOnly", SeverityLow, "/"),
			issue("Cross-site scripting", SeverityHigh, "/search"),
			issue("TLS cookie without secure flag", SeverityMedium, "/account"),
		}

		groups := GroupBySeverity(issues)

		if len(groups) != 3 {
			t.Fatalf("expected 3 groups, got %d", len(groups))
		}
		wantOrder := []Severity{SeverityHigh, SeverityLow, SeverityMedium}
		for i, want := range wantOrder {
			if groups[i].Severity != want {
				t.Errorf("group %d: expected %q, got %q", i, want, groups[i].Severity)
			}
		}

		high := groups[0].Issues
		if len(high) != 2 {
			t.Fatalf("expected 2 high issues, got %d", len(high))
		}
		if high[0].Path != "/login" || high[1].Path != "/search" {
			t.Errorf("high issues out of order: %q, %q", high[0].Path, high[1].Path)
		}
	})

	t.Run("empty input yields no groups", func(t *testing.T) {
		t.Parallel()

		groups := GroupBySeverity(nil)
		if groups == nil {
			t.Fatal("expected non-nil slice")
		}
		if len(groups) != 0 {
			t.Errorf("expected 0 groups, got %d", len(groups))
		}
	})

	t.Run("unknown severity is kept as its own group", func(t *testing.T) {
		t.Parallel()

		groups := GroupBySeverity([]Issue{
			issue("Custom check", Severity("critical"), "/admin"),
			issue("Info leak", SeverityInfo, "/robots.txt"),
		})

		if len(groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(groups))
		}
		if groups[0].Severity != Severity("critical") {
			t.Errorf("expected first group %q, got %q", "critical", groups[0].Severity)
		}
	})
}

// TestCountBySeverity tests severity tallies.
func TestCountBySeverity(t *testing.T) {
	t.Parallel()

	counts := CountBySeverity([]Issue{
		issue("a", SeverityHigh, "/"),
		issue("b", SeverityHigh, "/"),
		issue("c", SeverityMedium, "/"),
		issue("d", SeverityInfo, "/"),
		issue("e", Severity("bogus"), "/"),
	})

	if counts.High != 2 {
		t.Errorf("expected 2 high, got %d", counts.High)
	}
	if counts.Medium != 1 {
		t.Errorf("expected 1 medium, got %d", counts.Medium)
	}
	if counts.Low != 0 {
		t.Errorf("expected 0 low, got %d", counts.Low)
	}
	if counts.Info != 1 {
		t.Errorf("expected 1 info, got %d", counts.Info)
	}
	if counts.Other != 1 {
		t.Errorf("expected 1 other, got %d", counts.Other)
	}
	if counts.Total() != 5 {
		t.Errorf("expected total 5, got %d", counts.Total())
	}
}
