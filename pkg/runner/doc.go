/*
Package runner drives the engine's clock.

A Runner wakes up on a fixed cadence (one second by default) and hands the
current wall-clock instant to the engine. Because the engine derives every
duration from absolute timestamps, the runner carries no timing state of its
own and can be stopped and restarted freely.
*/
package runner
