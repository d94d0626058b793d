// Package printing renders the submission documents (business registration
// and employee hiring) as PDF.
//
// This package contains:
// - PDFRenderer interface for rendering HTML to PDF
// - ChromedpRenderer implementation driving a local or remote Chrome
// - Documents, which executes the embedded html/template documents and
//   implements ports.DocumentRenderer
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{RemoteURL: "ws://chrome:9222"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	docs, err := NewDocuments(renderer, Company{Name: "Prosperar Contabilidade"}, logger)
//	pdf, err := docs.RenderRegistration(ctx, reg)
package printing
