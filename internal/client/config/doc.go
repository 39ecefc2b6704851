// Package config loads runtime configuration for the Smart Voyage client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   auth platform base URL
//	-k string   public (anon) API key
//	-d string   storage DSN (SQLite path or postgres:// URL)
//	-t string   generation transport: http or grpc
//	-g string   gRPC generation endpoint host:port
//
// # JSON schema
//
// Intervals accept strings like "15s" or integer nanoseconds:
//
//	{
//	  "auth_url": "https://xyz.supabase.co",
//	  "anon_key": "eyJhbGciOi...",
//	  "functions_url": "https://xyz.supabase.co",
//	  "generation_transport": "http",
//	  "generation_grpc_addr": "127.0.0.1:50051",
//	  "storage_dsn": "voyage.db",
//	  "redirect_url": "http://localhost:8080/",
//	  "refresh_margin": "1m",
//	  "refresh_check_interval": "15s",
//	  "export_dir": "exports",
//	  "log_file": "voyage.log",
//	  "s3_bucket": "itineraries",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minioadmin",
//	  "s3_secret_key": "minioadmin",
//	  "share_link_ttl": "24h"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
