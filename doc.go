// Package main implements the arduinorelease CLI tool.
//
// The arduinorelease tool automates publishing a new version of the
// BasicMicro Arduino library. It reads the version from library.properties,
// bumps it, commits and pushes the change to two fixed git remotes, and
// creates a GitHub release on the public repository so the Arduino Library
// Manager picks it up.
//
// Command Usage:
//
//	arduinorelease [flags]
//
// Flags:
//
//	-C, --chdir:  Run as if started in the given directory instead of the
//	              current working directory.
//	--verbose:    Log every external command invocation with its exit code
//	              and duration.
//	--version:    Display the version of the arduinorelease CLI tool and exit.
//
// There are no other flags; every decision is made through an interactive
// prompt:
//
//	Bump type (major/minor/patch) [patch]:
//	Continue with this version? [Y/n]:
//	Commit message [Bump version to 1.3.0]:
//	Release notes (optional):
//
// The workflow, in order:
//
//  1. Verify the directory is inside a git working tree (fatal otherwise).
//  2. Check the Arduino library format; missing library.properties can be
//     skipped past with a confirmation (default no). Declining exits with
//     an error.
//  3. Ensure the upstream (acidtech) and origin (basicmicrosupport) remotes
//     are configured, adding any that are missing (best effort).
//  4. Read and bump the version in library.properties, preserving every
//     other byte of the file.
//  5. Commit all pending changes and push the branch to upstream, then
//     origin. Any failure here is fatal; a failed first push leaves the
//     second remote unpushed and the local commit in place.
//  6. Create the GitHub release with gh, auto-generating notes when none
//     are given. Failure here is reported with remediation hints but does
//     not change the exit code; the pushes have already landed.
//
// Exit codes: 0 on success or when the user declines the version
// confirmation; 1 on any fatal failure, including declining to continue
// past library format issues.
//
// Fixed endpoints (overridable via ARDUINORELEASE_* environment variables):
// upstream https://github.com/acidtech/basicmicro_arduino, origin
// https://github.com/basicmicrosupport/basicmicro_arduino, releases on
// basicmicrosupport/basicmicro_arduino.
//
// For the API documentation, see the "pkg" package.
package main
