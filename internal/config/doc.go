// Package config loads runtime configuration for the GophCart client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables prefixed with GOPHCART_.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-b string     document store backend: memory, sqlite, postgres, firestore
//	-s string     SQLite DSN for the sqlite backend
//	-d string     PostgreSQL DSN for the postgres backend
//	-p string     Firestore project id
//	-l string     path of the local client database
//	-r            remember the session between runs
//	-t duration   lifetime of a remembered session
//	-v string     log level
//
// # JSON schema
//
// Durations may be strings like "24h" or integer nanoseconds:
//
//	{
//	  "store_backend": "firestore",
//	  "firestore_project_id": "shop-demo",
//	  "remember_session": true,
//	  "session_ttl": "24h"
//	}
package config
