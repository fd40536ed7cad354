package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"radha-kanna-retail/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// CatalogExportService renders the viewer catalog into a printable
// HTML page and captures it as PDF or PNG through headless Chrome.
type CatalogExportService struct {
	viewer  ViewerServiceInterface
	baseURL string // Base URL the render endpoint is reachable on (e.g. "http://localhost:8080")
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	// Check environment variable first
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	// Common paths to check
	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// NewCatalogExportService creates a new CatalogExportService.
func NewCatalogExportService(viewer ViewerServiceInterface, baseURL string) *CatalogExportService {
	return &CatalogExportService{
		viewer:  viewer,
		baseURL: baseURL,
	}
}

// Ensure CatalogExportService implements CatalogExportServiceInterface
var _ CatalogExportServiceInterface = (*CatalogExportService)(nil)

// fetchImageAsBase64 fetches an image and converts it to base64 so the
// rendered page does not depend on the remote store being reachable
// from the browser.
func (s *CatalogExportService) fetchImageAsBase64(imageURL string) (string, error) {
	fullURL := imageURL
	if len(imageURL) > 0 && imageURL[0] == '/' {
		fullURL = s.baseURL + imageURL
	}

	resp, err := http.Get(fullURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	return base64.StdEncoding.EncodeToString(imageData), nil
}

// convertItemsToBase64 converts image URLs to base64 for all items
func (s *CatalogExportService) convertItemsToBase64(items []models.CatalogItem) {
	for i := range items {
		if items[i].ImageURL != "" {
			encoded, err := s.fetchImageAsBase64(items[i].ImageURL)
			if err != nil {
				log.Printf("⚠️  Warning: Failed to fetch image for %s: %v", items[i].Name, err)
				// Continue without image
				continue
			}
			items[i].ImageBase64 = encoded
		}
	}
}

// paginateItems splits items into pages of 9 items each
func paginateItems(items []models.CatalogItem) [][]models.CatalogItem {
	const itemsPerPage = 9
	var pages [][]models.CatalogItem

	for i := 0; i < len(items); i += itemsPerPage {
		end := i + itemsPerPage
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[i:end])
	}

	return pages
}

// catalogItems flattens the viewer listing into printable items in
// category order.
func (s *CatalogExportService) catalogItems(ctx context.Context) ([]models.CatalogItem, error) {
	order, listing, err := s.viewer.Listing(ctx)
	if err != nil {
		return nil, err
	}

	var items []models.CatalogItem
	for _, category := range order {
		for _, v := range listing[category] {
			items = append(items, models.CatalogItem{
				Category:    category,
				Name:        v.Name,
				Price:       v.Price,
				Description: v.Description,
				ImageURL:    v.CloudinaryURL,
			})
		}
	}
	return items, nil
}

// RenderCatalogHTML renders the catalog HTML template. embedImages
// inlines every image as base64 (needed for direct HTML viewing; the
// PDF/PNG paths let Chrome load the URLs itself).
func (s *CatalogExportService) RenderCatalogHTML(ctx context.Context, embedImages bool) (string, error) {
	items, err := s.catalogItems(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to collect catalog items: %w", err)
	}

	if embedImages {
		s.convertItemsToBase64(items)
	}

	pages := paginateItems(items)

	templateData := struct {
		Pages [][]models.CatalogItem
	}{
		Pages: pages,
	}

	templatePath := filepath.Join("templates", "catalog.html")
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// newChromeContext builds a chromedp context, honoring a detected
// Chrome path when available.
func newChromeContext(ctx context.Context) (context.Context, context.CancelFunc, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	return chromedpCtx, chromedpCancel, allocCancel
}

// GeneratePDF generates a PDF of the catalog using chromedp.
func (s *CatalogExportService) GeneratePDF(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	chromedpCtx, chromedpCancel, allocCancel := newChromeContext(ctx)
	defer allocCancel()
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/admin/catalog/render", s.baseURL)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 5000), // 210mm at 96 DPI, tall enough for all pages
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second), // Wait for images to load
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 portrait; page breaks come from CSS page-break-after
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

// GeneratePNG captures the rendered catalog as one full-page PNG.
func (s *CatalogExportService) GeneratePNG(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	chromedpCtx, chromedpCancel, allocCancel := newChromeContext(ctx)
	defer allocCancel()
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/admin/catalog/render", s.baseURL)

	var pngBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second),
		chromedp.FullScreenshot(&pngBuf, 90),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBuf, nil
}
