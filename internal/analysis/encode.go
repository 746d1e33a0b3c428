// Package analysis implements the job posting screenshot flow: encode the upload, ask the
// inference endpoint for structured fields, and parse its reply into an AnalysisRecord.
package analysis

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jonathan/portfolio-site/internal/types"
)

// DefaultMimeType tags payloads whose content is not recognizably an image.
const DefaultMimeType = "image/png"

// Encode reads the whole image and returns it base64 encoded with its detected media type.
func Encode(r io.Reader) (types.EncodedImage, error) {
	if r == nil {
		return types.EncodedImage{}, &EncodingError{Message: "no image provided"}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return types.EncodedImage{}, &EncodingError{Message: "failed to read image", Cause: err}
	}
	if len(data) == 0 {
		return types.EncodedImage{}, &EncodingError{Message: "image is empty"}
	}

	return types.EncodedImage{
		MimeType: detectMimeType(data),
		Data:     base64.StdEncoding.EncodeToString(data),
		Size:     len(data),
	}, nil
}

func detectMimeType(data []byte) string {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return m.String()
		}
	}
	return DefaultMimeType
}

// describe summarizes the payload without dumping it.
func describe(img types.EncodedImage) string {
	return fmt.Sprintf("%s, %d bytes", img.MimeType, img.Size)
}
