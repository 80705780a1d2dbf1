// Package memory provides in-memory implementations of the storage
// interfaces. They back unit tests and small local experiments; nothing
// is persisted.
package memory
