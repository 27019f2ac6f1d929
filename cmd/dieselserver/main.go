/*
Dieselserver starts the diesel demo server and begins listening for new
connections.

Usage:

	dieselserver [flags]
	dieselserver [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds to them
using REST protocol. By default, it listens on localhost:8080. This can be
changed with the --listen/-l flag (or config via environment var).

If a JWT token secret is not given, one is automatically generated; all
tokens issued under it become invalid as soon as the server shuts down,
which is suitable for testing but not production use.

The flags are:

	-v, --version
		Give the current version of the diesel demo server and then exit.

	-c, --config FILE
		Load configuration from the given TOML file. Values given via other
		flags or environment variables override the file's values.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, defaults to the value of environment variable
		DIESEL_LISTEN_ADDRESS, and if that is not given, to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less
		than 32 bytes in the secret, it is repeated until it is; the maximum
		size is 64 bytes. If not given, defaults to the value of environment
		variable DIESEL_TOKEN_SECRET. If no secret is specified, a random
		secret is automatically generated.

	-a, --admin-secret SECRET
		Use the provided secret as the admin secret required to obtain a
		token from POST /tokens. If not given, defaults to the value of
		environment variable DIESEL_ADMIN_SECRET.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of: inmem,
		sqlite. inmem has no further params. sqlite needs the path to the
		data directory, e.g. sqlite:path/to/db_dir. If not given, defaults to
		the value of environment variable DIESEL_DATABASE, and if that is
		not given, an in-memory database is selected.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/scala-steward/diesel-core/internal/diesel/demo"
	"github.com/scala-steward/diesel-core/internal/version"
	"github.com/scala-steward/diesel-core/server"
)

const (
	EnvListen      = "DIESEL_LISTEN_ADDRESS"
	EnvSecret      = "DIESEL_TOKEN_SECRET"
	EnvAdminSecret = "DIESEL_ADMIN_SECRET"
	EnvDB          = "DIESEL_DATABASE"
)

var (
	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of the diesel demo server and then exit.")
	flagConfig      = pflag.StringP("config", "c", "", "Load configuration from the given TOML file.")
	flagListen      = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret      = pflag.StringP("secret", "s", "", "Use the given secret for token signing.")
	flagAdminSecret = pflag.StringP("admin-secret", "a", "", "Use the given secret to gate POST /tokens.")
	flagDB          = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.ServerCurrent)
		return
	}

	if args := pflag.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	var cfg server.Config
	if *flagConfig != "" {
		var err error
		cfg, err = server.LoadConfigFile(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not load config file: %s\n", err.Error())
			os.Exit(1)
		}
	}

	if pflag.Lookup("listen").Changed {
		cfg.ListenAddress = *flagListen
	} else if cfg.ListenAddress == "" {
		cfg.ListenAddress = os.Getenv(EnvListen)
	}

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not a valid DB string: %s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
		cfg.DB = db
	}

	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}
	if tokSecStr != "" {
		cfg.TokenSecret = []byte(tokSecStr)
		for len(cfg.TokenSecret) < server.MinSecretSize {
			cfg.TokenSecret = append(cfg.TokenSecret, cfg.TokenSecret...)
		}
		if len(cfg.TokenSecret) > server.MaxSecretSize {
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(cfg.TokenSecret), server.MaxSecretSize)
			os.Exit(1)
		}
	} else if len(cfg.TokenSecret) == 0 {
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	adminSecret := os.Getenv(EnvAdminSecret)
	if pflag.Lookup("admin-secret").Changed {
		adminSecret = *flagAdminSecret
	}
	if adminSecret != "" {
		cfg.AdminSecret = adminSecret
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		log.Fatalf("FATAL could not connect to DB: %s", err.Error())
	}

	srv, err := server.New(demo.NewEngine(), db, cfg.TokenSecret, cfg.AdminSecret, cfg.UnauthDelay())
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized")

	addr := ""
	port := 0
	if cfg.ListenAddress != "" {
		bindParts := strings.SplitN(cfg.ListenAddress, ":", 2)
		if len(bindParts) != 2 {
			log.Fatalf("FATAL listen address is not in ADDRESS:PORT or :PORT format")
		}
		addr = bindParts[0]
		port, err = strconv.Atoi(bindParts[1])
		if err != nil {
			log.Fatalf("FATAL %q is not a valid port number", bindParts[1])
		}
	}

	log.Printf("INFO  Starting diesel demo server %s...", version.ServerCurrent)
	srv.ServeForever(addr, port)
}
