// Package rows is the row store of the point cloud data model.
//
// A Store is a rectangular table laid out by a schema.Schema: one typed,
// immutable column per field. Every operation that changes data returns a new
// Store and leaves the receiver untouched; columns that an operation does not
// touch are shared between the old and the new Store. Holding on to a Store
// is therefore a consistent snapshot.
//
// Cell values are normalized on the way in: integers are range checked
// against the declared width (or wrapped, depending on OverflowPolicy), f4
// values are rounded through float32 and f2 values through IEEE half
// precision.
package rows
