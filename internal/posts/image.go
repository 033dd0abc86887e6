package posts

import (
	"encoding/base64"
	"errors"
	"net/http"
)

var ErrImageTooLarge = errors.New("image exceeds the allowed upload size")

// EncodeDataURI turns a raw image payload into the base64 data-URI
// string the store transports inside JSON. The size cap applies to the
// raw bytes, before base64 inflation.
func EncodeDataURI(data []byte, contentType string, maxBytes int64) (string, error) {

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", ErrImageTooLarge
	}

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
