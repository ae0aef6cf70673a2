// Command mockrbslot serves an in-memory RBSlot admin API for local
// development. Point RBSLOT_API_URL at it and log in with 9999999999 /
// secret1.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot/rbslottest"
)

func main() {
	addr := flag.String("addr", ":9090", "Listen address")
	records := flag.Int("records", 25, "Records per resource")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	fake := rbslottest.NewUnstarted(rbslottest.Demo(*records))
	srv := &http.Server{
		Addr:              *addr,
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("mock RBSlot API", slog.String("addr", *addr), slog.Int("records", *records))
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("mock stopped", slog.Any("err", err))
		os.Exit(1)
	}
}
