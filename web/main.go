package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	staticDir := flag.String("static", "static", "Directory with the browser client")
	envFile := flag.String("env", ".env", "Environment file with S3 settings")
	flag.Parse()

	var cfg config.Config
	cfg.LoadEnv(*envFile)

	var uploader *output.Uploader
	if cfg.S3.Enabled() {
		var err error
		if uploader, err = output.NewUploader(cfg.S3); err != nil {
			log.Printf("Error configuring uploads: %v", err)
			os.Exit(1)
		}
		log.Printf("Uploading renders to bucket %s", cfg.S3.Bucket)
	}

	webServer := server.NewServer(*port, *staticDir, uploader)

	log.Printf("Path Tracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
