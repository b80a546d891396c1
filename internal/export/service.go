package export

import (
	"context"
	"fmt"
)

type pdfRenderer func(ctx context.Context, html, title string) (*Result, error)

// Service renders bulletins.
type Service struct {
	renderPDF pdfRenderer
}

func NewService() *Service {
	return &Service{renderPDF: chromePDF}
}

// Export renders the bulletin in the requested format.
func (s *Service) Export(ctx context.Context, bulletin Bulletin, format Format) (*Result, error) {
	html, err := RenderBulletinHTML(bulletin)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	title := "Boletim " + bulletin.AppName + " " + bulletin.GeneratedAt.Format("2006-01-02")
	switch format {
	case FormatPDF, "":
		return s.renderPDF(ctx, html, title)
	case FormatHTML:
		return &Result{
			Data:     []byte(html),
			Filename: sanitizeFilename(title) + ".html",
			MimeType: "text/html; charset=utf-8",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// PDFAvailable reports whether a Chrome binary was found for PDF output.
func (s *Service) PDFAvailable() bool {
	return chromeAvailable()
}
