// Package sim provides the discrete-event simulation engine for teller-sim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - customer.go, teller.go: the records the engine moves around
//   - event.go: the two event kinds (Arrival, TellerFinish) and their ordering
//   - simulator.go: initialisation, the event loop and arrival/finish dispatch
//   - metrics.go, report.go: running statistics and the final analysis
//
// # Architecture
//
// The event heap and the customer queues are the ring-buffer backed
// containers in sim/queue. Sub-packages supply the peripheral pieces:
//   - sim/queue/: RingBuffer, Iterator, Heap, FIFO
//   - sim/workload/: text input reader and synthetic workload generator
//   - sim/trace/: optional per-customer service trace
//
// The engine pulls customers from a Source one record at a time: each
// processed arrival schedules the next one, so the input is streamed rather
// than loaded up front.
//
// # Determinism
//
// A run is a single-threaded replay of logical time. Events with equal
// timestamps are ordered TellerFinish before Arrival, then by the order in
// which they were scheduled, so identical input always produces identical
// results.
package sim
