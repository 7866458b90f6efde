package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	clientDir := flag.String("client", "../client", "Path to client directory")
	dbPath := flag.String("db", "fishgrounds.db", "Path to SQLite database")
	publicURL := flag.String("public-url", "http://localhost:8080/", "Public URL encoded in the join QR code")
	flag.Parse()

	db, err := OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	auth := NewAuth(db)
	analytics := NewAnalytics(db)
	progress := NewProgressSync(db)

	world := NewWorld(progress, analytics)
	go world.Run()

	hub := NewHub(world, db, auth, analytics)
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir, *publicURL)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Serving client files from %s", *clientDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	server.Close()
	world.Stop()
	progress.Stop()
	analytics.Stop()
}
