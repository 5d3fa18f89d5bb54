// Package config loads runtime configuration for the artbook client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON. Keys missing
//     from the file keep their earlier value.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   REST root of the CMS, e.g. https://example.com/wp-json
//	-d string   path of the local SQLite database
//	-l string   content locale (en, ru)
//	-p int      posts per page
//	-t int      request timeout (seconds)
//	-v string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations use timex.Duration, so they may be strings like "10s" or integer
// nanoseconds:
//
//	api_url: https://example.com/wp-json
//	db_path: artbook.db
//	locale: ru
//	page_size: 5
//	request_timeout: 10s
//	log_level: debug
//	artists_category: 43
package config
