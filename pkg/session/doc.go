/*
Package session serializes access to persisted panel states.

Many clients may drive the same panel through the HTTP or MCP adapters. The
Manager holds one in-process mutex per panel ID, optionally backed by a
distributed lock, so read-modify-write cycles on visibility state never
interleave.
*/
package session
