// Package tables declares the game-data tables served by tabula.
//
// Every table has a schema, a minimal struct holding the fields present in both
// profiles and a ...Full struct adding the strict-only fields (display names,
// icons, descriptive text) used for auditing.
package tables
