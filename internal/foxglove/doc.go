// Package foxglove models the foxglove.PointCloud schema: a packed buffer of
// fixed-stride point records plus the field table that describes one record.
//
// Besides the in-memory model it provides the protobuf wire encoding used by
// Foxglove bridges and recorders, a PCD export of the same buffer, and
// readers for individual record values.
package foxglove
