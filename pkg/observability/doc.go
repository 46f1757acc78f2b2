/*
Package observability turns panel lifecycle events into logs and Prometheus metrics.

Both helpers return domain.LifecycleHooks, so they compose with each other and
with caller hooks through LifecycleHooks.Merge.
*/
package observability
