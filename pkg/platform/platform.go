package platform

import (
	"io"
	"os"
	"sync"

	"fileupload/pkg/logger"
)

// File is the writable handle returned by Platform.Create.
type File interface {
	io.Writer
	io.Closer
	Name() string
}

// Platform abstracts the filesystem calls made while persisting uploads.
type Platform interface {
	// Create opens name for writing, creating it or truncating existing content.
	Create(name string) (File, error)
	MkdirAll(dir string, perm os.FileMode) error
	Stat(name string) (os.FileInfo, error)
	Remove(path string) error
	IsNotExist(err error) bool
}

var (
	currentPlatform Platform
	platformOnce    sync.Once
)

// NewPlatform returns the process wide OS backed platform
func NewPlatform() Platform {
	platformOnce.Do(func() {
		currentPlatform = NewBasePlatform()
	})
	return currentPlatform
}

// BasePlatform implements Platform on top of package os
type BasePlatform struct {
	logger *logger.Logger
}

var _ Platform = (*BasePlatform)(nil)

// NewBasePlatform creates a new base platform
func NewBasePlatform() *BasePlatform {
	return &BasePlatform{
		logger: logger.WithField("component", "platform"),
	}
}

func (bp *BasePlatform) Create(name string) (File, error) {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (bp *BasePlatform) MkdirAll(dir string, perm os.FileMode) error {
	return os.MkdirAll(dir, perm)
}

func (bp *BasePlatform) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (bp *BasePlatform) Remove(path string) error {
	return os.Remove(path)
}

func (bp *BasePlatform) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
