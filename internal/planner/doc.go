// Package planner is the client side of the grow planner. It hydrates the
// active GrowProfile from server, local and default sources, keeps local
// preferences and the remote profile in step, and drives the weather lookup
// flow. All computation is delegated to package grow; this package only owns
// state and I/O.
package planner
