package main

import (
	"flag"
	"log"
	"net/http"

	webapp "github.com/NERSC/lustre-design-analysis/web/run"
)

func main() {
	configPath := flag.String("config", "analysis.yaml", "Path to analysis configuration file")
	listenAddr := flag.String("listen", "", "Address to listen on (overrides config)")
	flag.Parse()

	app := webapp.WebApp{
		ConfigPath: *configPath,
	}
	app.ReloadConfiguration()

	addr := app.GetListenAddr()
	if *listenAddr != "" {
		addr = *listenAddr
	}

	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, app.GetRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
