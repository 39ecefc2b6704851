package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/smartvoyage/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   auth platform base URL
//	-k string   public (anon) API key
//	-d string   storage DSN: SQLite path or postgres:// URL
//	-t string   generation transport: http or grpc
//	-g string   gRPC generation endpoint host:port
//
// args is filtered with flagx.FilterArgs first, so flags owned by other
// loaders (-c) do not make parsing fail.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-d", "-t", "-g"})

	fs := flag.NewFlagSet("voyage", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.AuthURL, "a", cfg.AuthURL, "auth platform base URL")
	fs.StringVar(&cfg.AnonKey, "k", cfg.AnonKey, "public API key")
	fs.StringVar(&cfg.StorageDSN, "d", cfg.StorageDSN, "local storage DSN")
	fs.StringVar(&cfg.GenerationTransport, "t", cfg.GenerationTransport, "generation transport (http|grpc)")
	fs.StringVar(&cfg.GenerationGRPCAddr, "g", cfg.GenerationGRPCAddr, "gRPC generation endpoint")

	return fs.Parse(args)
}
