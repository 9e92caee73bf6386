package form

import (
	"testing"

	"bazaar-cli/internal/api"
)

func newCategoryForm() *Controller {
	return New("categories", Create, "", []Field{
		{Name: "name", Label: "Name", Required: true, MaxLen: 80},
		{Name: "slug", Label: "Slug", Required: true, Slug: true},
		{Name: "contactEmail", Label: "Contact email", Email: true},
	})
}

func TestValidateRequiredAndFormats(t *testing.T) {
	f := newCategoryForm()
	if f.Validate() {
		t.Fatal("empty required fields must not validate")
	}
	if f.FieldError("name") == "" || f.FieldError("slug") == "" {
		t.Fatalf("missing required errors: name=%q slug=%q", f.FieldError("name"), f.FieldError("slug"))
	}

	f.SetValue("name", "Industrial Valves")
	f.SetValue("slug", "Industrial Valves")
	f.SetValue("contactEmail", "not-an-email")
	if f.Validate() {
		t.Fatal("bad slug/email must not validate")
	}
	if f.FieldError("slug") == "" {
		t.Fatal("expected slug pattern error")
	}
	if f.FieldError("contactEmail") == "" {
		t.Fatal("expected email format error")
	}

	f.SetValue("slug", "industrial-valves")
	f.SetValue("contactEmail", "buyer@example.com")
	if !f.Validate() {
		t.Fatalf("expected valid form, errors: name=%q slug=%q email=%q",
			f.FieldError("name"), f.FieldError("slug"), f.FieldError("contactEmail"))
	}
}

func TestSetValueClearsFieldError(t *testing.T) {
	f := newCategoryForm()
	f.Validate()
	if f.FieldError("name") == "" {
		t.Fatal("setup: expected name error")
	}
	f.SetValue("name", "Pumps")
	if f.FieldError("name") != "" {
		t.Fatal("editing a field must clear its error")
	}
}

func TestNoDoubleSubmit(t *testing.T) {
	f := newCategoryForm()
	f.SetValue("name", "Pumps")
	f.SetValue("slug", "pumps")

	if !f.BeginSubmit() {
		t.Fatal("first submit rejected")
	}
	// Second rapid submit (button click racing the form submit event) must
	// be rejected while the first is pending.
	if f.BeginSubmit() {
		t.Fatal("second submit accepted while one is in flight")
	}
	if !f.InFlight() {
		t.Fatal("expected in-flight submission")
	}

	out := f.HandleResult(nil)
	if !out.CloseModal {
		t.Fatal("success must close the modal")
	}
	if f.InFlight() {
		t.Fatal("in-flight flag stuck after completion")
	}
}

func TestInvalidFormDoesNotSubmit(t *testing.T) {
	f := newCategoryForm()
	if f.BeginSubmit() {
		t.Fatal("invalid form must not begin a submission")
	}
	if f.InFlight() {
		t.Fatal("no submission should be pending")
	}
}

func TestServerFieldErrorsMapBack(t *testing.T) {
	f := newCategoryForm()
	f.SetValue("name", "Pumps")
	f.SetValue("slug", "pumps")
	f.BeginSubmit()

	out := f.HandleResult(&api.APIError{
		Status:  422,
		Message: "validation failed",
		Fields:  map[string]string{"slug": "already in use"},
	})
	if out.CloseModal {
		t.Fatal("failure must keep the modal open")
	}
	if got := f.FieldError("slug"); got != "already in use" {
		t.Fatalf("slug error = %q", got)
	}
	if f.GenericError() != "" {
		t.Fatalf("generic = %q, want none when fields mapped", f.GenericError())
	}
	// Entered values survive the failure.
	if f.Value("name") != "Pumps" || f.Value("slug") != "pumps" {
		t.Fatal("form cleared on error")
	}
	// And the user can submit again.
	if !f.BeginSubmit() {
		t.Fatal("resubmit after failure rejected")
	}
}

func TestUnmappableServerErrorFallsBackToGeneric(t *testing.T) {
	f := newCategoryForm()
	f.SetValue("name", "Pumps")
	f.SetValue("slug", "pumps")
	f.BeginSubmit()

	out := f.HandleResult(&api.APIError{
		Status:  422,
		Message: "payload rejected",
		Fields:  map[string]string{"unknownField": "bad"},
	})
	if out.CloseModal {
		t.Fatal("failure must keep the modal open")
	}
	if f.GenericError() != "payload rejected" {
		t.Fatalf("generic = %q", f.GenericError())
	}
}

func TestStageAttachment(t *testing.T) {
	f := newCategoryForm()
	f.StageAttachment("image", "/tmp/a.png")
	f.StageAttachment("image", "")
	f.StageAttachment("datasheet", "/tmp/b.pdf")
	atts := f.Attachments()
	if len(atts) != 2 {
		t.Fatalf("attachments = %d, want 2", len(atts))
	}
	if atts[0].Field != "image" || atts[1].Field != "datasheet" {
		t.Fatalf("attachments = %+v", atts)
	}
}
