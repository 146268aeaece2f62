package scan

// WithClock lets tests drive the coordinator's notion of time.
var WithClock = withClock
