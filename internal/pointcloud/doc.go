// Package pointcloud implements the point cloud container: a typed,
// schema-driven collection of point records that is either a flat list
// (unorganized) or a width×height grid mirroring a sensor image (organized).
//
// Responsibilities: construction from rows and any schema.Input, unified
// row/field/grid addressing through Key, row mutation (insert, append, pop,
// delete) with automatic disorganization, and field mutation (append,
// insert, pop fields) with backfill of new columns.
//
// Every mutation builds a new rows.Store and swaps it in, so a Store
// obtained from Data or Get is a stable snapshot.
//
// A PointCloud is not safe for concurrent mutation.
package pointcloud
