// Package model provides the data structures shared by the pipeline package.
// It defines the stage descriptors, the stage statuses, the retry policy and
// the option interface implemented by pipeline observers.
package model
