// Package database stores assessment history in SQLite.
//
// Every saved assessment keeps its verdict, bilingual messages, detail
// entries and a BLAKE2b digest of the content snippets, so repeated
// checks of the same target can be compared over time. The driver is
// modernc.org/sqlite, which needs no cgo.
package database
