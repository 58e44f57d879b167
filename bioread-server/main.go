// This binary provides an HTTP server that exposes the statistics layer over
// a directory of genomic data files.
package main

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/genobase/bioread/bioread-server/file"
)

var (
	port      = flag.Int("port", 8080, "HTTP service port")
	directory = flag.String("directory", "", "directory that contains the data files")
)

func main() {
	flag.Parse()

	if *directory == "" {
		log.Fatal("no data directory specified")
	}

	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Header("Request-Id", uuid.New().String())
		c.Next()
	})

	router.GET("/alignments/:id/stats", file.NewAlignmentStatsHandler(*directory))
	router.GET("/alignments/:id/count", file.NewAlignmentCountHandler(*directory))
	router.GET("/variants/:id/stats", file.NewVariantStatsHandler(*directory))
	router.GET("/variants/:id/count", file.NewVariantCountHandler(*directory))
	router.GET("/reads/:id/summary", file.NewReadSummaryHandler(*directory))

	log.Info("Serving statistics", "directory", *directory, "port", *port)
	if err := router.Run(fmt.Sprintf(":%d", *port)); err != nil {
		log.Fatal("Server failed", "err", err)
	}
}
