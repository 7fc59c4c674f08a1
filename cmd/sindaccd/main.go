// Command sindaccd hosts the code generator as a long-running gRPC
// service (internal/rpcgen's CodegenService) instead of one process per
// compilation unit, the shape a build farm wants when recompiling the
// same units repeatedly. Flag handling follows cmd/sindacc's
// config-then-run shape.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"github.com/sindarinsdk/sindacc/internal/config"
	"github.com/sindarinsdk/sindacc/internal/rpcgen"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("sindaccd", flag.ContinueOnError)
	configPath := fs.String("config", "sindacc.yaml", "path to sindacc.yaml")
	listen := fs.String("listen", "", "override the configured listen address")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sindaccd: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	addr := cfg.Service.Listen
	if *listen != "" {
		addr = *listen
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sindaccd: listen on %s: %v\n", addr, err)
		return 1
	}

	srv := grpc.NewServer()
	rpcgen.RegisterCodegenServiceServer(srv, rpcgen.NewServer(cfg))

	fmt.Fprintf(os.Stderr, "sindaccd: listening on %s\n", addr)
	if err := srv.Serve(lis); err != nil {
		fmt.Fprintf(os.Stderr, "sindaccd: %v\n", err)
		return 1
	}
	return 0
}
