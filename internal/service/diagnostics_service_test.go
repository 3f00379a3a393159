package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/kicks_api/internal/models"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func diagnosticsResult(images ...string) *models.IngestResult {
	sale := int64(150000)
	return &models.IngestResult{
		Products: []models.CanonicalProduct{
			{SKU: "A1", Images: []string{images[0]}, TotalStock: 1, IsLastPair: true, SalePrice: &sale},
			{SKU: "B2", Images: []string{images[1]}, TotalStock: 3, IsMultiSize: true},
			{SKU: "C3", TotalStock: 2, IsMultiSize: true, IsKids: true},
		},
		Stats: models.IngestStats{
			TotalRows:    8,
			ConsumedRows: 6,
			SkippedRows:  2,
			SkipReasons:  map[models.SkipReason]int{models.SkipWrongStatus: 2},
			UniqueSKUs:   4,
			StatusCounts: map[string]int{"AVAILABLE": 6, "SOLD": 2},
		},
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(diagnosticsResult("http://x/a.jpg", "http://x/b.jpg"))

	assert.Equal(t, 8, report.TotalRows)
	assert.Equal(t, 2, report.SkippedRows)
	assert.Equal(t, 3, report.Products)
	assert.Equal(t, 1, report.ProductsWithoutImage)
	assert.Equal(t, []string{"C3"}, report.MissingImageSKUs)
	assert.Equal(t, 1, report.LastPair)
	assert.Equal(t, 2, report.MultiSize)
	assert.Equal(t, 1, report.Kids)
	assert.Equal(t, 1, report.OnSale)
	assert.Equal(t, 6, report.TotalUnits)
	assert.False(t, report.ImagesChecked)
}

func TestImageChecker_Check(t *testing.T) {
	img := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(img)
		case "/garbage.jpg":
			_, _ = w.Write([]byte("<html>sign in</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	checker := NewImageChecker(2 * time.Second)
	broken := checker.Check(context.Background(), []string{
		srv.URL + "/ok.png",
		srv.URL + "/missing.png",
		srv.URL + "/garbage.jpg",
		srv.URL + "/ok.png",
		"",
	})

	assert.Equal(t, map[string]bool{
		srv.URL + "/missing.png": true,
		srv.URL + "/garbage.jpg": true,
	}, broken)
}

func TestDiagnosticsService_ReportWithImageCheck(t *testing.T) {
	img := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/a.png" {
			_, _ = w.Write(img)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	ing := &fakeIngester{result: diagnosticsResult(srv.URL+"/a.png", srv.URL+"/b.png")}
	svc := NewDiagnosticsService(ing, NewImageChecker(time.Second))

	report, err := svc.Report(context.Background(), ReportOptions{CheckImages: true})
	require.NoError(t, err)
	assert.True(t, report.ImagesChecked)
	assert.Equal(t, 1, report.BrokenImages)
	assert.Equal(t, []string{"B2"}, report.BrokenImageSKUs)

	plain, err := svc.Report(context.Background(), ReportOptions{})
	require.NoError(t, err)
	assert.False(t, plain.ImagesChecked)
	assert.Zero(t, plain.BrokenImages)
}

func TestDiagnosticsService_PreviewPropagatesErrors(t *testing.T) {
	ing := &fakeIngester{err: context.DeadlineExceeded}
	svc := NewDiagnosticsService(ing, nil)

	_, err := svc.Preview(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = svc.Report(context.Background(), ReportOptions{CheckImages: true})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
