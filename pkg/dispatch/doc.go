// Package dispatch maps the user-triggered job kinds onto calls against the
// factoring service and turns the responses into outcomes for the output
// regions.
//
// Each action is split in two halves. [Dispatcher.Prepare] is pure and
// synchronous: it validates the form, serializes the request and yields the
// text to show immediately (the prompt or the placeholder).
// [Dispatcher.Execute] performs the call and never fails; errors become the
// rendered text of that action's region only.
package dispatch
