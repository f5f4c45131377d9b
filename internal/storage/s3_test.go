package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
)

func TestDecodeImageDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	ct, data, err := decodeImage("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ct != "image/png" {
		t.Fatalf("content type = %s, want image/png", ct)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("data = %q", data)
	}
}

func TestDecodeImageBareBase64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	ct, data, err := decodeImage(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ct != "image/jpeg" {
		t.Fatalf("content type = %s, want default image/jpeg", ct)
	}
	if len(data) == 0 {
		t.Fatalf("empty data")
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	if _, _, err := decodeImage("not base64 at all!!!"); err == nil {
		t.Fatalf("garbage accepted")
	}
	if _, _, err := decodeImage("data:image/png;base64"); err == nil {
		t.Fatalf("malformed data URI accepted")
	}
	if _, _, err := decodeImage(""); err == nil {
		t.Fatalf("empty input accepted")
	}
}

func TestUploadWithoutBucket(t *testing.T) {
	u := &Uploader{}
	_, err := u.Upload(context.Background(), "AAAA", "events", "1")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestExtFor(t *testing.T) {
	cases := map[string]string{
		"image/png":       ".png",
		"image/webp":      ".webp",
		"application/pdf": ".pdf",
		"image/jpeg":      ".jpg",
		"":                ".jpg",
	}
	for ct, want := range cases {
		if got := extFor(ct); got != want {
			t.Fatalf("extFor(%q) = %s, want %s", ct, got, want)
		}
	}
}
