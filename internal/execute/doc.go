// Package execute applies a rename plan and reports the outcome of every
// subtitle. Items are independent: a failed rename is recorded and the batch
// continues. Nothing is rolled back.
package execute
