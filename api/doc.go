// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package api implements a declarative routing and dispatch layer for
// web APIs.
//
// HTTP operations are declared as [Operation] values (a path template,
// a method set and a callback) and composed into a tree of containers:
// plain [Container]s, [Version]s and resource-scoped [ResourceAPI]s,
// rooted at an [Interface]. The tree flattens into an ordered routing
// table of (path, operation) pairs which a framework adapter registers
// with a real router; incoming requests are handed back to
// [Interface.Serve] which negotiates codecs, validates the method, runs
// the middleware phases around the callback and assembles a [Response]
// or a structured [Error].
//
// The core performs no network I/O and prescribes no concurrency model:
// the routing tree is built once at startup, is read-only afterwards and
// is safe for concurrent dispatch without locking.
package api
