// Package commands defines the nasauth CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - login    Authenticate against the appliance and store the session
//   - logout   Invalidate and clear the stored session
//   - info     Show appliance firmware and login capabilities
//   - status   Show the stored session
//
// # Implementation
//
// The root command loads the YAML config, overlays flags, and builds
// the dependency graph (session store, appliance client, auth service)
// before any subcommand runs. The stored session is sealed under the
// passphrase given with -p.
package commands
