package pdf

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeRenderer fills an HTML template and prints it to PDF with headless Chrome.
type ChromeRenderer struct {
	tmpl *template.Template
}

// NewChromeRenderer parses the certificate template at templatePath.
func NewChromeRenderer(templatePath string) (*ChromeRenderer, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate template: %w", err)
	}
	return &ChromeRenderer{tmpl: tmpl}, nil
}

type templateData struct {
	Title          string
	StudentLine    string
	CompletionLine string
	CourseTitle    string
	DateLine       string
}

// HTML executes the template for data.
func (r *ChromeRenderer) HTML(data CertificateData) (string, error) {
	var rendered bytes.Buffer
	err := r.tmpl.Execute(&rendered, templateData{
		Title:          TitleLine,
		StudentLine:    data.StudentLine(),
		CompletionLine: CompletionLine,
		CourseTitle:    data.CourseTitle,
		DateLine:       data.DateLine(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute certificate template: %w", err)
	}
	return rendered.String(), nil
}

// Render implements Renderer.
func (r *ChromeRenderer) Render(ctx context.Context, data CertificateData) ([]byte, error) {
	htmlContent, err := r.HTML(data)
	if err != nil {
		return nil, err
	}

	browserCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print certificate: %w", err)
	}
	return pdfBuffer, nil
}
