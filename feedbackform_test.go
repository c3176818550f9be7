package feedbackform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-feedbackform/pkg/model"
)

func TestEmbeddedTemplatesContainPages(t *testing.T) {
	for _, name := range []string{"layout.tmpl", "form.tmpl", "success.tmpl"} {
		if _, err := fs.ReadFile(EmbeddedTemplates(), name); err != nil {
			t.Fatalf("expected %s to be readable: %v", name, err)
		}
	}
}

func TestAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "feedbackform.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".feedback-") {
		t.Fatalf("expected feedback form rules in stylesheet")
	}
}

func TestValidate(t *testing.T) {
	errs := Validate(FormData{Name: "Jane Doe", Email: "jane@example.com", Rating: "3", Feedback: "Clear, practical and useful."})
	if !errs.Empty() {
		t.Fatalf("expected valid data, got %v", errs)
	}

	errs = Validate(FormData{})
	if got := errs.Invalid(); len(got) != 4 || errs.Has(model.FieldPhone) {
		t.Fatalf("unexpected invalid fields %v", got)
	}
}

func TestValidate_ReusesValidator(t *testing.T) {
	if defaultValidator() != defaultValidator() {
		t.Fatalf("expected one shared validator")
	}
	if got := Validate(FormData{Name: "John\u00A0Doe"}).Get(model.FieldName); got != "" {
		t.Fatalf("no-break space should be accepted in names, got %q", got)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	doc, err := OpenAPIDocument(context.Background())
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.Info.Title != "Training Feedback Form" {
		t.Fatalf("unexpected title %q", doc.Info.Title)
	}
}

func TestNewController(t *testing.T) {
	ctrl := NewController()
	defer ctrl.Close()

	if _, err := ctrl.Edit(model.FieldName, "Jane"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got := ctrl.State().Data.Name; got != "Jane" {
		t.Fatalf("unexpected name %q", got)
	}
}
