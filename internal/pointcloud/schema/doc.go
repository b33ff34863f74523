// Package schema owns the field layer of the point cloud data model.
//
// Responsibilities: the compact field descriptor grammar ("3f4", "u1"),
// normalization of the accepted field-specification inputs into one
// canonical, immutable Schema, and descriptor inference from sample rows.
// Key types: Descriptor, Field, Schema, Input.
//
// Dependency rule: schema depends on nothing else in the point cloud tree;
// rows and pointcloud build on it.
package schema
