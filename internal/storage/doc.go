// Package storage persists parsed games for their owning user.
//
// Persistence goes through the Store interface, a small row store with insert, update,
// delete and select by equality filter. Three backends implement it: an in-process
// MemoryStore, a FileStore that keeps one JSON file per table under a data directory
// (default ~/.local/share/boxscores/), and a PostgresStore on a pgx connection pool.
//
// Games sits on top of a Store and maps game records to the games, player_stats and
// team_stats tables.
package storage
