// Package brand resolves stored brand profiles for accounts whose
// generation requests omit an inline brand block. The engine reads
// profiles, it never writes them; profile management belongs to the
// surrounding product.
package brand
