package main

import (
	"wcp-fetch/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// The wcp-fetch project automates pulling application source code from the
// app-management platform via the external wcpcli tool:
//   - Authenticates with the platform through `wcpcli auth:login`
//   - Resolves an application's numeric id from its human-readable reference id
//     by parsing `wcpcli apps:list` output
//   - Triggers a source-archive download and waits for the ZIP to land in the
//     configured browser download directory
//   - Moves the ZIP into the app's archive directory under a timestamped name,
//     keeping a dated history of snapshots
//   - Empties the src directory and extracts the fresh archive into it
//   - Normalizes the .amd/.smd descriptor filenames and pretty-prints the
//     orchestration JSON files so different checkouts diff cleanly
//
// Error handling strategy:
//   - Each step aborts the remaining sequence on failure; no rollback is
//     attempted, and re-running from scratch is the expected remediation
//   - A failing step is reported by name and the process exits non-zero
func main() {
	cmd.Execute()
}
