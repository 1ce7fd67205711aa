package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

var allowedAttachmentTypes = []string{
	"image/jpeg",
	"image/png",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Rejection reasons, also used as metric labels.
const (
	rejectEmpty    = "empty"
	rejectSize     = "size"
	rejectType     = "type"
	rejectNotImage = "not_image"
	rejectLimit    = "limit"
)

// inspection is the verdict on one uploaded file.
type inspection struct {
	ContentType string
	Ext         string
	Reason      string
	Message     string
}

func (i inspection) ok() bool { return i.Reason == "" }

// AttachmentInspector checks uploads by content, not by their declared type.
type AttachmentInspector struct {
	maxSize int64
	metrics *Metrics
}

func NewAttachmentInspector(maxSize int64, metrics *Metrics) *AttachmentInspector {
	return &AttachmentInspector{maxSize: maxSize, metrics: metrics}
}

func (a *AttachmentInspector) inspect(size int64, data []byte, imageOnly bool) inspection {
	if size > a.maxSize || int64(len(data)) > a.maxSize {
		return a.reject(rejectSize, fmt.Sprintf("File exceeds the %d MB limit", a.maxSize/(1<<20)))
	}
	if len(data) == 0 {
		return a.reject(rejectEmpty, "File is empty")
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedAttachmentTypes...) {
		return a.reject(rejectType, "Unsupported file type. Allowed: JPEG, PNG, PDF, Word")
	}

	contentType := strings.SplitN(mt.String(), ";", 2)[0]
	if imageOnly && !isImage(contentType) {
		return a.reject(rejectNotImage, "Profile picture must be a JPEG or PNG image")
	}

	return inspection{ContentType: contentType, Ext: mt.Extension()}
}

func (a *AttachmentInspector) reject(reason, message string) inspection {
	a.metrics.AttachmentRejected(reason)
	return inspection{Reason: reason, Message: message}
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

type previewSource struct {
	FileName    string
	ContentType string
	Data        []byte
}

// buildPreviews renders a preview per file: a data URL for images, the file
// name otherwise. Results are stored by input position. A preview that cannot
// be produced is left empty.
func buildPreviews(ctx context.Context, files []previewSource) []string {
	previews := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if !isImage(f.ContentType) {
				previews[i] = f.FileName
				return nil
			}
			previews[i] = "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
			return nil
		})
	}
	_ = g.Wait()

	return previews
}
