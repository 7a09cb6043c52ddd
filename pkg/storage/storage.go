// Package storage provides the durable storage abstraction for zaika.
//
// Two drivers are available:
//   - "local" — local filesystem (default; the guest cart and credential
//     always live here)
//   - "s3"    — S3-compatible object storage, used to archive bills
//
// Quick start:
//
//	storage.Connect()
//	storage.Put("cart/guest.json", data)
//	data, _ := storage.Get("cart/guest.json")
//	storage.Use("s3").Put("bills/1042.txt", bill)
package storage

// Disk is the storage driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Missing is the inverse of Exists.
	Missing(path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(path string) error

	// Files lists files directly under directory.
	Files(directory string) ([]string, error)
}
