package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-feedbackform/pkg/model"
	"github.com/goliatone/go-feedbackform/pkg/sink"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type manualTask struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &manualTask{delay: d, fn: fn}
	s.tasks = append(s.tasks, task)
	return task
}

func (s *manualScheduler) fire() int {
	s.mu.Lock()
	var due []*manualTask
	for _, task := range s.tasks {
		if !task.stopped && !task.fired {
			task.fired = true
			due = append(due, task)
		}
	}
	s.mu.Unlock()
	for _, task := range due {
		task.fn()
	}
	return len(due)
}

type recordingSink struct {
	mu    sync.Mutex
	calls []model.FormData
	err   error
}

func (r *recordingSink) Submit(_ context.Context, data model.FormData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, data)
	return r.err
}

func fillController(t *testing.T, c *Controller, data model.FormData) {
	t.Helper()
	for _, field := range model.Fields() {
		value, _ := data.Get(field)
		if err := c.Change(field, value); err != nil {
			t.Fatalf("change %s: %v", field, err)
		}
	}
}

func TestController_AcceptedSubmission(t *testing.T) {
	sched := &manualScheduler{}
	rec := &recordingSink{}
	c := New(WithScheduler(sched), WithSink(rec), WithSubmitDelay(250*time.Millisecond))
	defer c.Close()

	fillController(t, c, validData())
	outcome, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome != OutcomeAccepted {
		t.Fatalf("expected accepted, got %s", outcome)
	}

	st := c.State()
	if !st.Submitting || st.Submitted {
		t.Fatalf("expected submitting immediately, got %+v", st)
	}
	if diff := cmp.Diff([]model.FormData{validData()}, rec.calls); diff != "" {
		t.Fatalf("sink calls mismatch (-want +got):\n%s", diff)
	}
	if len(sched.tasks) != 1 || sched.tasks[0].delay != 250*time.Millisecond {
		t.Fatalf("expected one task with configured delay, got %+v", sched.tasks)
	}

	if err := c.Change(model.FieldName, "Other"); !errors.Is(err, ErrSubmissionPending) {
		t.Fatalf("expected ErrSubmissionPending, got %v", err)
	}
	if again, _ := c.Submit(context.Background()); again != OutcomeIgnored {
		t.Fatalf("expected second submit ignored, got %s", again)
	}

	if fired := sched.fire(); fired != 1 {
		t.Fatalf("expected one completion, got %d", fired)
	}
	st = c.State()
	if !st.Submitted || st.Submitting || !st.Errors.Empty() {
		t.Fatalf("unexpected final state %+v", st)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("sink should be called exactly once, got %d", len(rec.calls))
	}
}

func TestController_RejectedSubmission(t *testing.T) {
	sched := &manualScheduler{}
	rec := &recordingSink{}
	c := New(WithScheduler(sched), WithSink(rec))
	defer c.Close()

	data := validData()
	data.Feedback = ""
	fillController(t, c, data)

	outcome, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome != OutcomeRejected {
		t.Fatalf("expected rejected, got %s", outcome)
	}
	st := c.State()
	if st.Submitting || st.Submitted {
		t.Fatalf("unexpected flags %+v", st)
	}
	if got := st.Errors.Get(model.FieldFeedback); got != "Feedback is required" {
		t.Fatalf("unexpected feedback error %q", got)
	}
	if len(rec.calls) != 0 || len(sched.tasks) != 0 {
		t.Fatalf("rejected submit must not emit or schedule")
	}
}

func TestController_SinkErrorDoesNotFailSubmission(t *testing.T) {
	sched := &manualScheduler{}
	c := New(WithScheduler(sched), WithSink(&recordingSink{err: errors.New("offline")}))
	defer c.Close()

	fillController(t, c, validData())
	outcome, err := c.Submit(context.Background())
	if err != nil || outcome != OutcomeAccepted {
		t.Fatalf("expected accepted without error, got %s/%v", outcome, err)
	}
	sched.fire()
	if !c.State().Submitted {
		t.Fatalf("submission should complete despite sink error")
	}
}

func TestController_ResetFromSubmitted(t *testing.T) {
	sched := &manualScheduler{}
	c := New(WithScheduler(sched), WithSink(sink.Discard))
	defer c.Close()

	fillController(t, c, validData())
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	sched.fire()

	if err := c.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	st := c.State()
	if diff := cmp.Diff(model.FormData{}, st.Data); diff != "" {
		t.Fatalf("data not reset (-want +got):\n%s", diff)
	}
	if st.Submitted || st.FeedbackCharCount() != 0 {
		t.Fatalf("unexpected state after reset %+v", st)
	}
}

func TestController_ResetDuringSubmissionStillCompletes(t *testing.T) {
	sched := &manualScheduler{}
	c := New(WithScheduler(sched), WithSink(sink.Discard))
	defer c.Close()

	fillController(t, c, validData())
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !c.State().Submitting {
		t.Fatalf("reset must not cancel the pending submission")
	}
	sched.fire()
	if !c.State().Submitted {
		t.Fatalf("pending submission should complete after reset")
	}
}

func TestController_BlurAndEdit(t *testing.T) {
	c := New(WithSink(sink.Discard))
	defer c.Close()

	msg, err := c.Edit(model.FieldEmail, "abc")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if msg != "Please enter a valid email address" {
		t.Fatalf("unexpected message %q", msg)
	}
	if c.State().Data.Email != "abc" {
		t.Fatalf("edit should store the value")
	}

	before := c.State()
	msg, err = c.Blur(model.FieldID("age"), "1")
	if err != nil || msg != "" {
		t.Fatalf("unknown field should be valid, got %q, %v", msg, err)
	}
	if diff := cmp.Diff(before, c.State()); diff != "" {
		t.Fatalf("unknown field changed state (-before +after):\n%s", diff)
	}
}

func TestController_ReplaceKeepsRecordsWhole(t *testing.T) {
	sched := &manualScheduler{}
	rec := &recordingSink{}
	c := New(WithScheduler(sched), WithSink(rec))
	defer c.Close()

	records := make([]model.FormData, 8)
	for i := range records {
		records[i] = model.FormData{
			Name:     "Writer " + string(rune('A'+i)),
			Email:    "writer" + string(rune('a'+i)) + "@example.com",
			Rating:   string(rune('1' + i%5)),
			Feedback: "Feedback written by writer number " + string(rune('A'+i)),
		}
	}

	var wg sync.WaitGroup
	for _, data := range records {
		wg.Add(1)
		go func(data model.FormData) {
			defer wg.Done()
			if err := c.Replace(data); err != nil && !errors.Is(err, ErrSubmissionPending) {
				t.Errorf("replace: %v", err)
				return
			}
			_, _ = c.Submit(context.Background())
		}(data)
	}
	wg.Wait()
	sched.fire()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.calls) != 1 {
		t.Fatalf("expected exactly one accepted submission, got %d", len(rec.calls))
	}
	for _, data := range records {
		if rec.calls[0] == data {
			return
		}
	}
	t.Fatalf("submitted record %+v matches none of the records sent", rec.calls[0])
}

func TestController_Observers(t *testing.T) {
	sched := &manualScheduler{}
	var phases []Phase
	c := New(
		WithScheduler(sched),
		WithSink(sink.Discard),
		WithObserver(func(s State) { phases = append(phases, s.Phase()) }),
	)
	defer c.Close()

	fillController(t, c, validData())
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	sched.fire()
	if err := c.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	want := []Phase{
		PhaseEditing, PhaseEditing, PhaseEditing, PhaseEditing, PhaseEditing,
		PhaseSubmitting,
		PhaseSubmitted,
		PhaseEditing,
	}
	if diff := cmp.Diff(want, phases); diff != "" {
		t.Fatalf("observed phases mismatch (-want +got):\n%s", diff)
	}
}

func TestController_WaitWithRealTimer(t *testing.T) {
	c := New(WithSink(sink.Discard), WithSubmitDelay(10*time.Millisecond))
	defer c.Close()

	fillController(t, c, validData())
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := c.Wait(ctx)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !st.Submitted {
		t.Fatalf("expected submitted after wait, got %+v", st)
	}
}

func TestController_WaitHonoursContext(t *testing.T) {
	sched := &manualScheduler{}
	c := New(WithScheduler(sched), WithSink(sink.Discard))
	defer c.Close()

	fillController(t, c, validData())
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestController_CloseStopsPendingCompletion(t *testing.T) {
	sched := &manualScheduler{}
	c := New(WithScheduler(sched), WithSink(sink.Discard))

	fillController(t, c, validData())
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !sched.tasks[0].stopped {
		t.Fatalf("close should stop the pending task")
	}
	if _, err := c.Wait(context.Background()); err != nil {
		t.Fatalf("wait after close: %v", err)
	}
	if err := c.Change(model.FieldName, "x"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
