package controller

import (
	"fmt"
	"net/http"

	"radha-kanna-retail/service"
)

// CatalogExportController handles printable catalog generation.
type CatalogExportController struct {
	export service.CatalogExportServiceInterface
}

// NewCatalogExportController creates a new CatalogExportController
func NewCatalogExportController(export service.CatalogExportServiceInterface) *CatalogExportController {
	return &CatalogExportController{export: export}
}

// Render handles GET /admin/catalog/render
// Serves the catalog HTML that the PDF/PNG captures load. Images are
// left as URLs; Chrome fetches them itself.
func (c *CatalogExportController) Render(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	html, err := c.export.RenderCatalogHTML(r.Context(), false)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to render catalog: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// PDF handles GET /admin/catalog/pdf
func (c *CatalogExportController) PDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pdf, err := c.export.GeneratePDF(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.pdf"`)
	w.Write(pdf)
}

// PNG handles GET /admin/catalog/png
func (c *CatalogExportController) PNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	png, err := c.export.GeneratePNG(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate PNG: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.png"`)
	w.Write(png)
}
