package vanilla_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-feedbackform/pkg/model"
	"github.com/goliatone/go-feedbackform/pkg/renderers/vanilla"
	"github.com/goliatone/go-feedbackform/pkg/session"
)

func render(t *testing.T, state session.State, opts vanilla.RenderOptions) string {
	t.Helper()
	r, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), model.FeedbackForm(), state, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}
}

func TestRender_EmptyForm(t *testing.T) {
	html := render(t, session.Initial(), vanilla.RenderOptions{})

	assertContains(t, html,
		"Training Feedback Form",
		`action="/"`,
		`name="name"`,
		`type="email"`,
		`type="tel"`,
		`placeholder="Enter your 10-digit phone number"`,
		`value="5"`,
		"0/250 characters",
		"Submit Feedback",
	)
	if strings.Contains(html, "feedback-error") {
		t.Fatalf("empty form should not show errors")
	}
}

func TestRender_ErrorsAndValues(t *testing.T) {
	state := session.Initial()
	state.Data = model.FormData{Name: "John123", Rating: "3", Feedback: "short <b>"}
	state.Errors = model.ErrorMap{
		model.FieldName:     "Name should only contain alphabets and spaces",
		model.FieldFeedback: "Feedback must be at least 20 characters",
	}

	html := render(t, state, vanilla.RenderOptions{})
	assertContains(t, html,
		`value="John123"`,
		`class="feedback-input error"`,
		"Name should only contain alphabets and spaces",
		"9/250 characters",
		" - Feedback must be at least 20 characters",
		`value="3" class="feedback-radio-input" checked`,
		"short &lt;b&gt;",
	)
}

func TestRender_SubmittingDisablesButton(t *testing.T) {
	state := session.Initial()
	state.Submitting = true

	html := render(t, state, vanilla.RenderOptions{RefreshSeconds: 1})
	assertContains(t, html, "disabled", "Submitting...", `http-equiv="refresh" content="1"`)
}

func TestRender_SuccessPage(t *testing.T) {
	state := session.Initial()
	state.Submitted = true

	html := render(t, state, vanilla.RenderOptions{ResetAction: "/feedback/reset", Stylesheet: "/assets/feedbackform.css"})
	assertContains(t, html,
		"Thank You!",
		"Your feedback has been submitted successfully.",
		`action="/feedback/reset"`,
		"Submit New Feedback",
		`href="/assets/feedbackform.css"`,
	)
	if strings.Contains(html, "<textarea") {
		t.Fatalf("success page should not render the form")
	}
}

func TestAssetsFS(t *testing.T) {
	f, err := vanilla.AssetsFS().Open(vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("open stylesheet: %v", err)
	}
	_ = f.Close()
}
