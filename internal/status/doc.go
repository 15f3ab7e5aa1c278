// Package status serializes progress output from concurrent probes and
// fetch workers. N subprocess readers publishing directly to the terminal
// would interleave mid-line; instead every component publishes events to a
// single reporter goroutine that prints one line at a time, FIFO.
package status
