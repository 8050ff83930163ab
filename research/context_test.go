package research

import (
	"errors"
	"strings"
	"testing"

	"github.com/richinex/sibyl/model"
)

func TestNewContextRejectsBadFieldSets(t *testing.T) {
	cases := [][]string{
		nil,
		{},
		{"a", ""},
		{"a", "a"},
	}

	for _, fields := range cases {
		if _, err := NewContext(fields); !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for %v, got %v", fields, err)
		}
	}
}

func TestNewContextStartsEmpty(t *testing.T) {
	ctx, err := NewContext([]string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ctx.State() != StateEmpty {
		t.Errorf("expected empty state, got %s", ctx.State())
	}
	if meta := ctx.Metadata(); meta != (Metadata{}) {
		t.Errorf("expected zero metadata, got %+v", meta)
	}
	missing := ctx.MissingFields()
	if len(missing) != 2 || missing[0] != "a" || missing[1] != "b" {
		t.Errorf("expected missing [a b], got %v", missing)
	}
}

func TestUpdateUnknownField(t *testing.T) {
	ctx, _ := NewContext([]string{"a"})

	err := ctx.Update("typo", TextValue("x"))
	var unknownErr *UnknownFieldError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if unknownErr.Field != "typo" {
		t.Errorf("expected field 'typo', got %q", unknownErr.Field)
	}
}

// Scenario: update one of two required fields, compose fails naming the other.
func TestPartialContextComposeFails(t *testing.T) {
	ctx, _ := NewContext([]string{"a", "b"})

	if err := ctx.Update("a", TextValue("x")); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if ctx.State() != StatePartial {
		t.Errorf("expected partial state, got %s", ctx.State())
	}

	missing := ctx.MissingFields()
	if len(missing) != 1 || missing[0] != "b" {
		t.Errorf("expected missing [b], got %v", missing)
	}

	_, err := ctx.Compose(model.ReportComprehensive)
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	if len(incomplete.Missing) != 1 || incomplete.Missing[0] != "b" {
		t.Errorf("expected IncompleteError missing [b], got %v", incomplete.Missing)
	}
}

// Scenario: completing the second field allows a summary compose containing both values.
func TestCompleteContextComposes(t *testing.T) {
	ctx, _ := NewContext([]string{"a", "b"})
	_ = ctx.Update("a", TextValue("x"))
	_ = ctx.Update("b", ListValue("y"))

	if ctx.State() != StateComplete {
		t.Fatalf("expected complete state, got %s", ctx.State())
	}
	if missing := ctx.MissingFields(); len(missing) != 0 {
		t.Fatalf("expected no missing fields, got %v", missing)
	}

	artifact, err := ctx.Compose(model.ReportSummary)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !strings.Contains(artifact.Body, "x") || !strings.Contains(artifact.Body, "y") {
		t.Errorf("expected report to contain both values, got:\n%s", artifact.Body)
	}
	if artifact.Kind != model.ReportSummary {
		t.Errorf("expected summary kind, got %s", artifact.Kind)
	}
}

func TestComposeCompleteNeverIncomplete(t *testing.T) {
	ctx, _ := NewContext([]string{"a"})
	_ = ctx.Update("a", TextValue("value"))

	for i := 0; i < 3; i++ {
		if _, err := ctx.Compose(model.ReportComprehensive); err != nil {
			t.Fatalf("compose on complete context failed: %v", err)
		}
	}
}

func TestRecordStepSuccessSatisfiesField(t *testing.T) {
	ctx, _ := NewContext([]string{"culture", "skills"})

	err := ctx.RecordStep("research culture", "culture", TextValue("collaborative"), true)
	if err != nil {
		t.Fatalf("RecordStep failed: %v", err)
	}

	value, ok := ctx.Value("culture")
	if !ok || !value.Satisfied() {
		t.Error("expected culture to be satisfied after successful step")
	}

	meta := ctx.Metadata()
	if meta.TotalSteps != 1 || meta.SuccessfulSteps != 1 || meta.UpdateCount != 1 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

// A failed step never corrupts a previously satisfied field.
func TestRecordStepFailureLeavesFieldUnchanged(t *testing.T) {
	ctx, _ := NewContext([]string{"culture"})
	_ = ctx.RecordStep("first", "culture", TextValue("original"), true)

	err := ctx.RecordStep("second", "culture", TextValue("garbage"), false)
	if err != nil {
		t.Fatalf("RecordStep failed: %v", err)
	}

	value, _ := ctx.Value("culture")
	if value.Text() != "original" {
		t.Errorf("failed step overwrote field: got %q", value.Text())
	}

	meta := ctx.Metadata()
	if meta.FailedSteps != 1 {
		t.Errorf("expected 1 failed step, got %d", meta.FailedSteps)
	}
	if len(ctx.History()) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(ctx.History()))
	}
}

func TestRecordStepFailureOnUnsatisfiedField(t *testing.T) {
	ctx, _ := NewContext([]string{"culture"})

	before := ctx.MissingFields()
	_ = ctx.RecordStep("attempt", "culture", NoValue(), false)
	after := ctx.MissingFields()

	if len(before) != len(after) {
		t.Errorf("failed step changed satisfaction: before %v, after %v", before, after)
	}
}

func TestRecordStepUnknownField(t *testing.T) {
	ctx, _ := NewContext([]string{"culture"})

	err := ctx.RecordStep("q", "nope", TextValue("v"), true)
	var unknownErr *UnknownFieldError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if len(ctx.History()) != 0 {
		t.Error("unknown field step must not be recorded")
	}
}

func TestAuditTrailRecordsPreviousValue(t *testing.T) {
	ctx, _ := NewContext([]string{"a"})
	_ = ctx.Update("a", TextValue("first"))
	_ = ctx.Update("a", TextValue("second"))

	audit := ctx.AuditTrail()
	if len(audit) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(audit))
	}
	if audit[0].Previous.Satisfied() {
		t.Error("first audit entry should record the unset previous value")
	}
	if audit[1].Previous.Text() != "first" {
		t.Errorf("expected previous 'first', got %q", audit[1].Previous.Text())
	}
}

// COMPLETE is not sticky: clearing a field moves back to PARTIAL.
func TestCompleteNotSticky(t *testing.T) {
	ctx, _ := NewContext([]string{"a", "b"})
	_ = ctx.Update("a", TextValue("x"))
	_ = ctx.Update("b", TextValue("y"))

	if ctx.State() != StateComplete {
		t.Fatalf("expected complete, got %s", ctx.State())
	}

	_ = ctx.Update("b", NoValue())

	if ctx.State() != StatePartial {
		t.Errorf("expected partial after clearing a field, got %s", ctx.State())
	}
	if _, err := ctx.Compose(model.ReportComprehensive); err == nil {
		t.Error("expected compose to fail after clearing a field")
	}
}

func TestEmptyListValueNotSatisfied(t *testing.T) {
	ctx, _ := NewContext([]string{"a"})
	_ = ctx.Update("a", ListValue())

	if len(ctx.MissingFields()) != 1 {
		t.Error("empty list must not satisfy a field")
	}
}

// Scenario: reset restores the empty state but keeps the required set.
func TestResetClearsEverything(t *testing.T) {
	ctx, _ := NewContext([]string{"a", "b"})
	_ = ctx.RecordStep("q1", "a", TextValue("x"), true)
	_ = ctx.RecordStep("q2", "b", ListValue("y"), true)
	_ = ctx.RecordStep("q3", "a", NoValue(), false)

	ctx.Reset()

	missing := ctx.MissingFields()
	required := ctx.RequiredFields()
	if len(missing) != len(required) {
		t.Errorf("expected all required fields missing after reset, got %v", missing)
	}
	if len(ctx.History()) != 0 {
		t.Error("expected empty history after reset")
	}
	if len(ctx.AuditTrail()) != 0 {
		t.Error("expected empty audit trail after reset")
	}
	if ctx.Metadata() != (Metadata{}) {
		t.Errorf("expected zero metadata after reset, got %+v", ctx.Metadata())
	}
	if ctx.State() != StateEmpty {
		t.Errorf("expected empty state after reset, got %s", ctx.State())
	}
}

func TestComprehensiveReportRendersHeadings(t *testing.T) {
	ctx, _ := NewContext([]string{"company_culture", "role_skills"})
	_ = ctx.Update("company_culture", TextValue("Collaborative and open."))
	_ = ctx.Update("role_skills", ListValue("Communication", "Teamwork"))

	artifact, err := ctx.Compose(model.ReportComprehensive)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	for _, want := range []string{
		"# Research Report",
		"## Company Culture",
		"Collaborative and open.",
		"## Role Skills",
		"- Communication",
		"- Teamwork",
	} {
		if !strings.Contains(artifact.Body, want) {
			t.Errorf("expected report to contain %q, got:\n%s", want, artifact.Body)
		}
	}
}

func TestSummaryReportTruncates(t *testing.T) {
	longText := strings.Repeat("detail ", 60)
	ctx, _ := NewContext([]string{"culture", "skills"})
	_ = ctx.Update("culture", TextValue(longText))
	_ = ctx.Update("skills", ListValue("a", "b", "c", "d", "e"))

	artifact, err := ctx.Compose(model.ReportSummary)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if strings.Contains(artifact.Body, longText) {
		t.Error("summary should truncate long text fields")
	}
	if strings.Contains(artifact.Body, "- e") {
		t.Error("summary should truncate list fields")
	}
}
