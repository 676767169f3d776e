package minio

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/GoArmGo/PetFinder/internal/domain"
)

const imageField = "petImgURL"

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
}

type image struct {
	data        []byte
	contentType string
}

// decodeImage разбирает data URI или голый base64. Внешние ссылки не скачиваются.
func decodeImage(raw string) (image, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return image{}, &domain.ValidationError{Field: imageField, Reason: "empty image"}
	}
	if lower := strings.ToLower(raw); strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return image{}, &domain.ValidationError{Field: imageField, Reason: "remote image URLs are not accepted, send a data URI or base64"}
	}

	declared := ""
	payload := raw
	if strings.HasPrefix(raw, "data:") {
		header, body, ok := strings.Cut(raw, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return image{}, &domain.ValidationError{Field: imageField, Reason: "data URI must be base64 encoded"}
		}
		declared = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil || len(data) == 0 {
		return image{}, &domain.ValidationError{Field: imageField, Reason: "invalid base64 image"}
	}

	contentType := declared
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if _, ok := extensions[contentType]; !ok {
		return image{}, &domain.ValidationError{Field: imageField, Reason: "unsupported image type " + contentType}
	}

	return image{data: data, contentType: contentType}, nil
}

func objectKey(img image) string {
	sum := sha256.Sum256(img.data)
	return "pets/" + hex.EncodeToString(sum[:]) + "." + extensions[img.contentType]
}
