package handlers

import (
	"fmt"
	"net/http"
)

// MetricsHandler exports a minimal text exposition. A full metrics registry
// is out of scope for now; this keeps the scrape target stable.
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (h *MetricsHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "# HELP reviewback_up Is the server up\n")
	fmt.Fprintf(w, "# TYPE reviewback_up gauge\n")
	fmt.Fprintf(w, "reviewback_up 1\n")
}
