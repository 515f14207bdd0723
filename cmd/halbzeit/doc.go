// Package main hosts the halbzeit CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into command
// files in the shared exchange directory, model registry maintenance, job
// progress polling, and configuration scaffolding. It centralizes
// configuration resolution and dispatcher construction so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
// That separation keeps the CLI declarative while the heavy lifting lives in
// the worker.
package main
