// Package domain defines the data models and interfaces shared across
// the client. It contains plain types (wire/state) and contracts
// (interfaces) only.
package domain
