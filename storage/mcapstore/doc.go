// Package mcapstore implements storage.Backend over the public MCAP
// container format: leading and trailing 8-byte magic, then a data
// section of opcode-tagged, 8-byte-length-prefixed records (Header,
// Schema, Channel, Message, DataEnd) followed by a Footer record and the
// trailing magic. This writer produces no summary section — an allowance
// spec.md §4.3 grants a minimal writer explicitly — so the real MCAP
// opcode and length framing is what lets any standards-compliant decoder
// still walk the file; it just has no index to do it faster with. Reads
// are served from a memory-mapped view of the file (edsrzf/mmap-go,
// grounded on the mmap dependency other_examples/manifests/bagaswh-prometheus
// and grafana-tempo pull in), parsed with a full scan on open for the
// same reason.
package mcapstore
