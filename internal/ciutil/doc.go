// Package ciutil centralizes detection of the execution environment:
// whether the process runs under a CI provider, and where the project
// root lives. The migration runner and the database test helpers both
// resolve repository-relative paths through it, so local runs, GitHub
// Actions, and GitLab CI behave the same.
package ciutil
