// Package session implements the feedback form lifecycle.
//
// The transitions (Change, Blur, Submit, Complete, Reset) are pure functions
// over a State value so they can be tested without any input surface. The
// Controller wraps them for one live session: it serialises events, hands
// accepted submissions to a sink.Sink and completes them after a fixed delay
// through a Scheduler task.
//
//	ctrl := session.New(session.WithSink(sink.NewLogSink(logger)))
//	defer ctrl.Close()
//
//	_ = ctrl.Change(model.FieldName, "Jane Roe")
//	msg, _ := ctrl.Blur(model.FieldName, "Jane Roe")
//	outcome, _ := ctrl.Submit(ctx)
//	if outcome == session.OutcomeAccepted {
//		state, _ := ctrl.Wait(ctx)
//		_ = state.Submitted // true
//	}
//
// A submission in flight cannot be aborted by user actions; Reset clears the
// form but the pending completion still fires. Close stops it when the
// session is thrown away.
package session
