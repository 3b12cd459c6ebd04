package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// SaveFile stores an uploaded file under folder with a generated name.
func SaveFile(file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	filename := fmt.Sprintf("%s%s", GenerateRandomString(12), filepath.Ext(header.Filename))
	filePath := filepath.Join(folder, filename)
	out, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err = io.Copy(out, file); err != nil {
		return "", err
	}
	return filename, nil
}

// SaveThumbnail writes a 200x200 thumbnail next to the original, prefixed "thumb_".
func SaveThumbnail(folder, filename string) (string, error) {
	src, err := imaging.Open(filepath.Join(folder, filename))
	if err != nil {
		return "", err
	}
	thumb := imaging.Thumbnail(src, 200, 200, imaging.Lanczos)
	thumbName := "thumb_" + filename
	if err := imaging.Save(thumb, filepath.Join(folder, thumbName)); err != nil {
		return "", err
	}
	return thumbName, nil
}

var SupportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}
