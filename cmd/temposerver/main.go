/*
Temposerver starts an HTTP server exposing the LTL satisfiability checker
and begins listening for new connections.

Usage:

	temposerver [flags]
	temposerver [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds to them using
REST protocol. By default, it will listen on localhost:8080. This can be
changed with the --listen/-l flag. The flag argument must be either a full
address with port, such as "192.168.0.2:6001", or just the port preceded by a
colon, such as ":6001".

The flags are:

	-v, --version
		Give the current version of the tempo server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Defaults to localhost:8080.

	--maximum-depth N
		Cap the tableau depth of every request that does not set its own.

	--no-sat
		Disable the propositional SAT accelerator for all requests.
*/
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/tempo-ltl/tempo/internal/version"
	"github.com/tempo-ltl/tempo/server"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitServerError indicates an unsuccessful program execution due to a
	// problem while running the server.
	ExitServerError
)

var (
	returnCode   int     = ExitSuccess
	flagVersion  *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagListen   *string = pflag.StringP("listen", "l", "localhost:8080", "The address to listen on, in ADDRESS:PORT or :PORT format")
	flagMaxDepth *uint64 = pflag.Uint64("maximum-depth", 0, "Cap the tableau depth of every request (0 = unlimited)")
	flagNoSAT    *bool   = pflag.Bool("no-sat", false, "Disable the propositional SAT accelerator")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	srv := server.New()
	srv.MaxDepth = *flagMaxDepth
	srv.DisableSAT = *flagNoSAT

	fmt.Printf("listening on %s\n", *flagListen)
	if err := http.ListenAndServe(*flagListen, srv); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitServerError
	}
}
