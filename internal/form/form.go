// Package form validates and submits the create/edit forms that live inside
// modals. It owns the duplicate-submission guard and the mapping of server
// validation errors back onto fields.
package form

import (
	"regexp"
	"strings"

	"bazaar-cli/internal/api"
)

// Mode distinguishes create from update submissions.
type Mode int

const (
	Create Mode = iota
	Update
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	slugRe  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Field is one form input with its client-side rules.
type Field struct {
	Name  string
	Label string
	Value string

	Required bool
	Email    bool
	Slug     bool
	MaxLen   int
}

// Controller drives one modal form. All submission paths (form submit,
// button click, Enter key) must funnel through BeginSubmit; that single
// entry point is what collapses the double-fire bug class.
type Controller struct {
	Collection string
	Mode       Mode
	RecordID   string

	fields []Field
	index  map[string]int

	errors  map[string]string
	generic string

	attachments []api.Attachment

	inFlight bool
}

// New builds a form controller over an ordered field list.
func New(collection string, mode Mode, recordID string, fields []Field) *Controller {
	c := &Controller{
		Collection: collection,
		Mode:       mode,
		RecordID:   recordID,
		fields:     fields,
		index:      make(map[string]int, len(fields)),
		errors:     map[string]string{},
	}
	for i, f := range fields {
		c.index[f.Name] = i
	}
	return c
}

// Fields returns the fields in declaration order, with current values and no
// aliasing of internal state.
func (c *Controller) Fields() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Value returns the current value of a field.
func (c *Controller) Value(name string) string {
	if i, ok := c.index[name]; ok {
		return c.fields[i].Value
	}
	return ""
}

// SetValue updates a field and clears its error (the user is addressing it).
func (c *Controller) SetValue(name, value string) {
	i, ok := c.index[name]
	if !ok {
		return
	}
	c.fields[i].Value = value
	delete(c.errors, name)
	c.generic = ""
}

// FieldError returns the message for a field, "" when clean.
func (c *Controller) FieldError(name string) string { return c.errors[name] }

// GenericError returns the banner-level message used when a server error
// could not be mapped onto fields.
func (c *Controller) GenericError() string { return c.generic }

// InFlight reports whether a submission is pending; the UI renders the
// submit control disabled with a busy label while true.
func (c *Controller) InFlight() bool { return c.inFlight }

// StageAttachment queues a local file for a multipart submission.
func (c *Controller) StageAttachment(field, path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	c.attachments = append(c.attachments, api.Attachment{Field: field, Path: path})
}

// Attachments returns the staged files.
func (c *Controller) Attachments() []api.Attachment { return c.attachments }

// Validate runs the client-side rules. Invalid fields get messages in the
// same slots later used for server errors; returns true when clean.
func (c *Controller) Validate() bool {
	c.errors = map[string]string{}
	for _, f := range c.fields {
		v := strings.TrimSpace(f.Value)
		switch {
		case f.Required && v == "":
			c.errors[f.Name] = f.Label + " is required"
		case v != "" && f.Email && !emailRe.MatchString(v):
			c.errors[f.Name] = "Enter a valid email address"
		case v != "" && f.Slug && !slugRe.MatchString(v):
			c.errors[f.Name] = "Use lowercase letters, digits and hyphens"
		case f.MaxLen > 0 && len(v) > f.MaxLen:
			c.errors[f.Name] = f.Label + " is too long"
		}
	}
	return len(c.errors) == 0
}

// Payload returns the field values keyed by name.
func (c *Controller) Payload() map[string]string {
	out := make(map[string]string, len(c.fields))
	for _, f := range c.fields {
		out[f.Name] = strings.TrimSpace(f.Value)
	}
	return out
}

// BeginSubmit is the single submission entry point. It rejects a second
// attempt while one is in flight, blocks on client-side validation, and
// otherwise marks the submission pending. The caller performs the network
// call and reports back through HandleResult.
func (c *Controller) BeginSubmit() bool {
	if c.inFlight {
		return false
	}
	if !c.Validate() {
		return false
	}
	c.inFlight = true
	c.generic = ""
	return true
}

// Outcome is what the owning modal should do after a submission completes.
type Outcome struct {
	// CloseModal: submission succeeded; close the modal and reload the list.
	CloseModal bool
}

// HandleResult applies a submission completion. On failure the entered
// values stay put; structured server errors land on their fields, anything
// unrecognizable becomes one generic message.
func (c *Controller) HandleResult(err error) Outcome {
	c.inFlight = false
	if err == nil {
		return Outcome{CloseModal: true}
	}
	fields := api.FieldErrors(err)
	mapped := false
	for name, msg := range fields {
		if _, ok := c.index[name]; ok {
			c.errors[name] = msg
			mapped = true
		}
	}
	if !mapped {
		c.generic = api.UserMessage(err)
	}
	return Outcome{}
}
