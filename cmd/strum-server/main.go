package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/cwbudde/algo-strum/internal/wsnet"
	"github.com/cwbudde/algo-strum/session"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	path := flag.String("path", "/ws", "websocket endpoint path")
	flag.Parse()

	logger := log.New(os.Stdout, "strum-server: ", log.LstdFlags)

	registry := session.NewRegistry()
	broker := session.NewBroker(registry, logger)

	mux := http.NewServeMux()
	mux.Handle(*path, wsnet.NewHandler(broker, logger))

	logger.Printf("listening on %s%s", *addr, *path)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Fatal(err)
	}
}
