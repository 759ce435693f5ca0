package blob

import (
	"bytes"
	"context"
	"testing"
)

func TestMemoryStoreUpload(t *testing.T) {
	store := NewMemoryStore()

	url, err := store.Upload(context.Background(), "pictures/test.png", "image/png", bytes.NewReader([]byte("png-bytes")))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if url != "memory://pictures/test.png" {
		t.Errorf("URL = %q, want %q", url, "memory://pictures/test.png")
	}

	data, ok := store.Object("pictures/test.png")
	if !ok {
		t.Fatal("Object not stored")
	}
	if string(data) != "png-bytes" {
		t.Errorf("Stored bytes = %q, want %q", data, "png-bytes")
	}
}

func TestMemoryStoreMissingObject(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Object("pictures/nope.png"); ok {
		t.Error("Expected missing object")
	}
}
