// Package main provides the MEE assistant server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mee-advisor/mee-assistant-go/internal/buildinfo"
	"github.com/mee-advisor/mee-assistant-go/internal/config"
	"github.com/mee-advisor/mee-assistant-go/internal/rag"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, cfg *config.Config, registry *prometheus.Registry, vectorDB *rag.VectorDB, bm25Index *rag.BM25Index) {
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "mee-assistant",
			"version": buildinfo.Version,
		})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness Probe - checks if the application is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - checks if the retrieval indices hold documents
	readyHandler := func(c *gin.Context) {
		vectorCount := vectorDB.Count()
		lexicalCount := bm25Index.Count()

		if vectorCount == 0 && lexicalCount == 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "retrieval indices are empty",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
			"indices": gin.H{
				"vector":  vectorCount,
				"lexical": lexicalCount,
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Prometheus metrics endpoint, Basic Auth when a password is configured
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
