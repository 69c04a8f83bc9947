package application

import "expvar"

// Counters published on /debug/vars.
var (
	metricSignups        = expvar.NewInt("signups")
	metricLogins         = expvar.NewInt("logins")
	metricTasksAdded     = expvar.NewInt("tasks_added")
	metricCommentsPruned = expvar.NewInt("comments_pruned")
)
