/*
Package tabula is a typed registry for human-edited game-design tables.

It loads raw records (one sequence per table, PascalCase keys) from a source,
decodes each record against a declared schema, indexes every table by its
integer identifier and publishes an immutable Catalog for the rest of the server
to read. Identifier references between tables are checked once the whole
catalog is loaded.

# Profiles

Two schema profiles exist. The strict (build-complete) profile rejects columns
the schema does not declare and requires every field, including audit-only
text such as display names and icon paths. The lenient (build-minimal) profile
drops unknown columns and never reads the audit-only fields, so decoded records
have no slot for them. The profile is a single switch applied to every table.

# Failure policy

A decode failure (missing field, type mismatch, unknown field in strict mode)
or a duplicate identifier fails the load: no catalog is published. Dangling
references are advisory and reported on the Result; WithStrictReferences turns
them into a load failure.

# Usage

	src := file.New("./data")
	res, err := tabula.Load(ctx, src, tabula.WithMode(schema.Lenient))
	if err != nil {
		log.Fatal(err)
	}
	items, _ := tables.PhantomItems(res.Catalog)
	item, ok := items.Get(1)
*/
package tabula
