// Package stages contains the concrete provisioning stages: system packages,
// Python dependencies, the model runtime, the model itself and the Codespaces
// port exposure. Every stage shells out through command.Runner or talks to
// the runtime through small interfaces, so tests can script both.
package stages
