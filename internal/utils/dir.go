package utils

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// IsFile tests whether given path exists and is a file
func IsFile(filePath string) bool {
	file, err := os.Stat(filePath)
	if err != nil {
		return false
	}

	return file.Mode().IsRegular()
}

// IsDirectory tests whether given path exists and is a directory
func IsDirectory(dirPath string) bool {
	dir, err := os.Stat(dirPath)
	if err != nil {
		return false
	}

	return dir.IsDir()
}

// EnsureDirectory creates dirPath and its parents unless it already is a directory
func EnsureDirectory(dirPath string) error {
	if IsDirectory(dirPath) {
		return nil
	}
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return fmt.Errorf("create %s: %w", dirPath, err)
	}
	return nil
}

// SavePNG encodes img to path
func SavePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return out.Close()
}

// LoadImage decodes the PNG at path
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
