/*
Package table builds identifier-indexed tables from ordered raw records.

Load is shape-agnostic: it takes the raw rows, a Decoder for one row and a function
extracting the identifier from a decoded row. Decoding is fail-fast and the index is
built only once every row has decoded; a shared identifier fails the load. A Table is
never published partially and is read-only once built.
*/
package table
