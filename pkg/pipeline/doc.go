// Package pipeline provides a dependency-ordered provisioning pipeline.
//
// A pipeline is an ordered sequence of stages. Each stage carries an
// idempotency check, an action and a retry policy: when the check reports the
// stage goal already holds the action is never invoked, otherwise the action
// runs under the stage's policy with a constant delay between attempts.
// Stages execute strictly in order; a stage never starts before every prior
// stage has completed successfully or been skipped.
//
// The pipeline stops on the first fatal failure and surfaces it as a
// *StageFailure carrying the stage name, the number of attempts made and the
// last error. A stage may instead report ErrDegraded, which is logged as a
// warning and does not stop the run.
//
// Observers such as measures, drawers or progress reporters attach through
// the model.PipelineOption interface and receive a callback for every stage
// transition.
package pipeline
