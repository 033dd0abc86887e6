package posts

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestEncodeDataURI(t *testing.T) {
	data := []byte("fake-image")

	uri, err := EncodeDataURI(data, "image/png", 1024)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("uri = %q", uri)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != "fake-image" {
		t.Errorf("decoded = %q", decoded)
	}
}

func TestEncodeDataURISizeCap(t *testing.T) {
	data := make([]byte, 100)

	if _, err := EncodeDataURI(data, "image/png", 99); err != ErrImageTooLarge {
		t.Errorf("err = %v, want ErrImageTooLarge", err)
	}
	if _, err := EncodeDataURI(data, "image/png", 100); err != nil {
		t.Errorf("payload at the cap must pass, got %v", err)
	}
}

func TestEncodeDataURIDetectsContentType(t *testing.T) {
	// PNG magic bytes are enough for http.DetectContentType.
	png := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 16)...)

	uri, err := EncodeDataURI(png, "", 1024)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("uri = %q", uri)
	}
}
