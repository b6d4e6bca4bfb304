// Package contact implements the contact form state machine and the
// senders that deliver its messages.
package contact

import (
	"time"

	"github.com/google/uuid"
)

// State is the submission status of a form.
type State int

const (
	Idle State = iota
	Submitting
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "unknown"
}

const (
	// SubmitDelay is the latency of the simulated sender.
	SubmitDelay = time.Second
	// ResetDelay is how long the success state is shown before the form
	// returns to idle.
	ResetDelay = 3 * time.Second
)

// FailureText is shown to the visitor while the form is in the error state.
const FailureText = "Sorry, there was an error sending your message. Please try again later."

// Message is one submitted contact request.
type Message struct {
	ID          string    `json:"id"`
	SenderEmail string    `json:"sender_email"`
	Body        string    `json:"body"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Form holds the two input fields and the submission state.
type Form struct {
	email string
	body  string
	state State
	err   error
	now   func() time.Time
}

// NewForm returns an idle, empty form.
func NewForm() *Form {
	return &Form{now: time.Now}
}

// NewFormWith returns an idle form pre-filled with the given fields.
func NewFormWith(email, body string) *Form {
	f := NewForm()
	f.email, f.body = email, body
	return f
}

// Restore rebuilds a form in a known state, for request/response flows
// where the page, not the server, holds the form between requests.
func Restore(s State, email, body string) *Form {
	f := NewFormWith(email, body)
	f.state = s
	return f
}

func (f *Form) State() State  { return f.state }
func (f *Form) Email() string { return f.email }
func (f *Form) Body() string  { return f.body }

// Err is the failure recorded by the last Complete, if the form is in Error.
func (f *Form) Err() error { return f.err }

// Editable reports whether the inputs and submit control accept input.
func (f *Form) Editable() bool { return f.state != Submitting }

// SetEmail updates the sender email unless the form is submitting.
func (f *Form) SetEmail(v string) {
	if f.Editable() {
		f.email = v
	}
}

// SetBody updates the message body unless the form is submitting.
func (f *Form) SetBody(v string) {
	if f.Editable() {
		f.body = v
	}
}

// Submit moves an idle form with both fields filled to Submitting and
// returns the message to deliver. Anything else is ignored and reports false.
func (f *Form) Submit() (Message, bool) {
	if f.state != Idle || f.email == "" || f.body == "" {
		return Message{}, false
	}
	f.state = Submitting
	return Message{
		ID:          uuid.NewString(),
		SenderEmail: f.email,
		Body:        f.body,
		ReceivedAt:  f.now().UTC(),
	}, true
}

// Complete records the delivery outcome. Success clears both fields;
// failure keeps them so the visitor can retry after acknowledging.
func (f *Form) Complete(err error) {
	if f.state != Submitting {
		return
	}
	if err != nil {
		f.state = Error
		f.err = err
		return
	}
	f.state = Success
	f.err = nil
	f.email, f.body = "", ""
}

// Reset returns a successful form to Idle.
func (f *Form) Reset() {
	if f.state == Success {
		f.state = Idle
	}
}

// Acknowledge dismisses the error and returns the form to Idle.
func (f *Form) Acknowledge() {
	if f.state == Error {
		f.state = Idle
		f.err = nil
	}
}
