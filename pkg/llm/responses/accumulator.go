package responses

import (
	"fmt"
	"strings"
)

// FailureError is the provider-signalled failure of a response.
type FailureError struct {
	Code    string
	Message string
}

func (e *FailureError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("response failed: %s", e.Message)
	}
	return fmt.Sprintf("response failed: %s: %s", e.Code, e.Message)
}

// Accumulator reassembles a full response from stream events. It is not
// safe for concurrent use.
type Accumulator struct {
	responseID string
	status     string

	// texts holds output text keyed by content part, in first-seen order.
	texts     map[textKey]*strings.Builder
	textOrder []textKey

	refusal strings.Builder

	// calls holds function calls keyed by item id, in first-seen order.
	calls     map[string]*callState
	callOrder []string

	usage    Usage
	hasUsage bool

	failure          *FailureError
	incompleteReason string
	done             bool
}

// textKey identifies one output_text content part.
type textKey struct {
	itemID       string
	contentIndex int
}

type callState struct {
	callID    string
	name      string
	arguments strings.Builder
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		texts: map[textKey]*strings.Builder{},
		calls: map[string]*callState{},
	}
}

// Apply folds one event into the accumulated state.
func (a *Accumulator) Apply(ev *StreamEvent) {
	if ev == nil {
		return
	}

	if id, ok := ev.ResponseIDValue(); ok && id != "" {
		a.responseID = id
	}
	if status, ok := ev.Status(); ok && status != "" {
		a.status = status
	}
	if u, ok := ev.Usage(); ok {
		a.usage = u
		a.hasUsage = true
	}

	itemID := ""
	if ev.ItemID != nil {
		itemID = *ev.ItemID
	}
	part := textKey{itemID: itemID}
	if ev.ContentIndex != nil {
		part.contentIndex = *ev.ContentIndex
	}

	if delta, ok := ev.TextDelta(); ok {
		a.text(part).WriteString(delta)
	}
	if text, ok := ev.TextDone(); ok {
		b := a.text(part)
		b.Reset()
		b.WriteString(text)
	}
	if delta, ok := ev.RefusalDelta(); ok {
		a.refusal.WriteString(delta)
	}
	if refusal, ok := ev.RefusalDone(); ok {
		a.refusal.Reset()
		a.refusal.WriteString(refusal)
	}
	if delta, ok := ev.ArgumentsDelta(); ok {
		a.call(itemID).arguments.WriteString(delta)
	}
	if fc, ok := ev.FunctionCall(); ok {
		state := a.call(fc.ItemID)
		if fc.CallID != "" {
			state.callID = fc.CallID
		}
		if fc.Name != "" {
			state.name = fc.Name
		}
		if fc.Arguments != "" {
			state.arguments.Reset()
			state.arguments.WriteString(fc.Arguments)
		}
	}

	if ev.IsFailed() {
		f := &FailureError{}
		f.Message, _ = ev.ErrorMessage()
		f.Code, _ = ev.ErrorCode()
		a.failure = f
	}
	if reason, ok := ev.IncompleteReason(); ok {
		a.incompleteReason = reason
	}
	if ev.IsTerminal() {
		a.done = true
	}
}

func (a *Accumulator) text(key textKey) *strings.Builder {
	b, ok := a.texts[key]
	if !ok {
		b = &strings.Builder{}
		a.texts[key] = b
		a.textOrder = append(a.textOrder, key)
	}
	return b
}

func (a *Accumulator) call(itemID string) *callState {
	state, ok := a.calls[itemID]
	if !ok {
		state = &callState{}
		a.calls[itemID] = state
		a.callOrder = append(a.callOrder, itemID)
	}
	return state
}

// Text returns all output text, content parts joined in first-seen order.
func (a *Accumulator) Text() string {
	var sb strings.Builder
	for _, key := range a.textOrder {
		sb.WriteString(a.texts[key].String())
	}
	return sb.String()
}

func (a *Accumulator) Refusal() string { return a.refusal.String() }

// FunctionCalls returns the calls seen so far in first-seen order.
func (a *Accumulator) FunctionCalls() []FunctionCall {
	calls := make([]FunctionCall, 0, len(a.callOrder))
	for _, id := range a.callOrder {
		state := a.calls[id]
		calls = append(calls, FunctionCall{
			ItemID:    id,
			CallID:    state.callID,
			Name:      state.name,
			Arguments: state.arguments.String(),
		})
	}
	return calls
}

func (a *Accumulator) ResponseID() string { return a.responseID }

func (a *Accumulator) Status() string { return a.status }

func (a *Accumulator) Usage() (Usage, bool) { return a.usage, a.hasUsage }

func (a *Accumulator) IncompleteReason() string { return a.incompleteReason }

// Done reports whether a terminal event has been applied.
func (a *Accumulator) Done() bool { return a.done }

// Err returns a *FailureError when the provider reported a failure.
func (a *Accumulator) Err() error {
	if a.failure == nil {
		return nil
	}
	return a.failure
}
