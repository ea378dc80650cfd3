// Package release automates publishing a new version of the BasicMicro
// Arduino library.
//
// It provides functionalities for:
//   - Reading and writing the version entry of a library.properties file
//     while preserving every other byte of the file.
//   - Bumping three-component semantic versions (major, minor, patch).
//   - Driving the git CLI to verify the working tree, configure the two
//     fixed remotes, and commit and push the version change to both.
//   - Creating a GitHub release on the public fork with the gh CLI.
//   - Sequencing all of the above into an interactive workflow with
//     confirmation prompts.
//
// External commands are reached through the Runner interface and user
// decisions through the Prompter interface, so the workflow's sequencing is
// fully testable with scripted fakes. The library is consumed by the CLI at
// the repository root, but can be embedded in other release tooling.
package release
