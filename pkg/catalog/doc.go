/*
Package catalog loads a set of table definitions into an immutable Catalog.

A Definition pairs a table name with its Schema and, optionally, typed views
(Go structs bound from the decoded records). The Loader reads every defined
table from a ports.TableSource, decodes and indexes each one through
table.Load, and publishes a Catalog only when every table succeeded.

Independent tables load concurrently; each worker builds its own table and
shares nothing mutable with the others. Once returned, a Catalog is never
modified and can be read from any number of goroutines without locking.

	loader := catalog.NewLoader(
	    catalog.WithDefinitions(tables.Definitions(schema.Strict)...),
	    catalog.WithMode(schema.Strict),
	)
	cat, err := loader.Load(ctx, source)
	rec, ok := cat.Get("PhantomItemData", 1)
*/
package catalog
