// Package heron analyzes multi-module Gradle workspaces.
package heron

// Version is the heron release
const Version = "0.3.0"
