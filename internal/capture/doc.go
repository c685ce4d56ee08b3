// Package capture turns the two output channels of a child process into one
// ordered stream of timestamped lines.
//
// # Ordering
//
// A single loop owns both descriptors. Each iteration blocks until at least
// one descriptor is readable, reads whatever is available without blocking,
// and emits the lines the read completed. Timestamps are taken when the read
// returns, so:
//
//  1. Within one channel, timestamps are monotonically non-decreasing.
//  2. Across channels, events appear in the order data became readable on
//     the host, which is not necessarily the order the child wrote it.
//  3. When both channels become readable in the same cycle, stdout is always
//     serviced before stderr. This tie-break is fixed so that repeated runs
//     of the same workload interleave the same way.
//
// The emitted order is final. Consumers must not re-sort by timestamp.
//
// # Line assembly
//
// Bytes accumulate per channel until a newline completes a line. All lines
// completed by a single read share that read's timestamp: granularity is per
// read event, not per line, because one kernel read can deliver many lines
// at once. Bytes after the last newline stay buffered; if the channel closes
// while a fragment is buffered, the fragment is emitted as a final line
// marked NoTerminator.
package capture
