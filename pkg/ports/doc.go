/*
Package ports defines the driven ports (interfaces) for tabula.

These interfaces decouple catalog loading from the place raw table data lives,
allowing the same schemas to be loaded from memory, a directory of files or Redis.

# Key Interfaces

  - TableSource: Supplies the raw rows of each table, in authoring order.
  - Watchable: Signals that the backing data changed and a reload is due.
  - TablePublisher: Writes raw rows back to a backend (used to seed Redis from files).
*/
package ports
