package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"radha-kanna-retail/service"
)

// SyncController handles HTTP requests that trigger synchronization
// with the remote image store.
type SyncController struct {
	engine service.SyncEngineInterface
}

// NewSyncController creates a new SyncController
func NewSyncController(engine service.SyncEngineInterface) *SyncController {
	return &SyncController{engine: engine}
}

// UploadAll handles POST /admin/upload
// Runs one sync pass over the whole catalog and returns the aggregate
// report. Per-item failures are part of the report, not an error
// status; only a pass that could not run at all is an error.
func (c *SyncController) UploadAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := c.engine.SyncAll(r.Context())
	if err != nil && result == nil {
		http.Error(w, fmt.Sprintf("Sync pass failed: %v", err), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"result": result,
	}
	if err != nil {
		response["status"] = "partial"
		response["stopped"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
