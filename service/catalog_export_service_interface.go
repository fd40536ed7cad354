package service

import "context"

// CatalogExportServiceInterface defines the contract for printable
// catalog generation.
type CatalogExportServiceInterface interface {
	RenderCatalogHTML(ctx context.Context, embedImages bool) (string, error)
	GeneratePDF(ctx context.Context) ([]byte, error)
	GeneratePNG(ctx context.Context) ([]byte, error)
}
