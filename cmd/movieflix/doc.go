// Package main hosts the MovieFlix CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into calls against the
// MovieFlix REST backend: signing in and out, account verification and
// password recovery, listing and editing collection entries, and the
// interactive dashboard. It centralizes configuration resolution, the local
// session store, and logger setup so subcommands stay focused on prompts and
// output.
//
// Behaviour lives in the internal packages; commands here only parse flags,
// prompt for what is missing, and render results.
package main
