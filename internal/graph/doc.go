// Package graph builds the two reachability models of a movement set.
//
// The static graph aggregates all movements into one untimed directed edge
// per (source, destination) pair. The temporal graph is time-expanded: every
// premise is replicated once per day, movements connect (u,t) to (v,t+1) and
// waiting edges connect (g,t) to (g,t+1). Paths in the temporal graph are
// exactly the causally ordered transmission chains; the static graph also
// admits chains that run backwards in time.
package graph
