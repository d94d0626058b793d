package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/dto"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/middleware"
)

// multipartMemory is kept in memory before spilling parts to temp files
const multipartMemory = 32 << 20

// formFile is one part read from a multipart form
type formFile struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

// ParseMultipart parses the multipart form and answers 400/413 on failure
func (h *BaseHandler) ParseMultipart(c *gin.Context) (*multipart.Form, bool) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		h.bindMultipartError(c, err)
		return nil, false
	}
	return c.Request.MultipartForm, true
}

func (h *BaseHandler) bindMultipartError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body too large")
		return
	}
	h.BadRequest(c, "Invalid multipart form")
}

// BindFormJSON decodes the JSON document carried in a form field and runs
// the binding validator over it
func (h *BaseHandler) BindFormJSON(c *gin.Context, form *multipart.Form, field string, req any) bool {
	values := form.Value[field]
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		h.BadRequest(c, fmt.Sprintf("Field %s is required", field))
		return false
	}
	if err := json.Unmarshal([]byte(values[0]), req); err != nil {
		h.BadRequest(c, fmt.Sprintf("Field %s is not valid JSON", field))
		return false
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// readFormFiles reads every file whose field name is accepted by match
func readFormFiles(form *multipart.Form, match func(field string) bool) ([]formFile, error) {
	var out []formFile
	for field, headers := range form.File {
		if !match(field) {
			continue
		}
		for _, fh := range headers {
			content, err := readFileHeader(fh)
			if err != nil {
				return nil, err
			}
			out = append(out, formFile{
				Field:       field,
				FileName:    fh.Filename,
				ContentType: fileContentType(fh),
				Content:     content,
			})
		}
	}
	return out, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// fileContentType falls back to sniffing when the client sent no type
func fileContentType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		return strings.ToLower(ct)
	}
	f, err := fh.Open()
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	return http.DetectContentType(head[:n])
}

// splitIndexedField splits "documentoComFoto_2" into its prefix and index
func splitIndexedField(field string) (string, int, bool) {
	i := strings.LastIndexByte(field, '_')
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(field[i+1:])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return field[:i], n, true
}
