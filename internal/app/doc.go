// Package app wires application dependencies for the CLI.
//
// It loads the YAML config, builds the concrete store, appliance
// client and auth service from it, and exposes them via the Wire
// struct for commands to use.
package app
