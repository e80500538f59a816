package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"tryon-gateway/internal/application/usecases"
	"tryon-gateway/internal/domain/valueobjects"
)

var validExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func main() {
	person := flag.String("person", "", "path to the person photo")
	clothing := flag.String("clothing", "", "path to the clothing image")
	dir := flag.String("dir", "", "encode every image in this directory instead")
	out := flag.String("out", "encoded", "output directory for -dir mode")
	flag.Parse()

	if *dir != "" {
		n, err := encodeDir(*dir, *out)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("encoded %d images into %s", n, *out)
		return
	}

	if *person == "" || *clothing == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := writeRequest(os.Stdout, *person, *clothing); err != nil {
		log.Fatal(err)
	}
}

// writeRequest prints a gateway request body with both images inlined as data URLs.
func writeRequest(w io.Writer, personPath, clothingPath string) error {
	personImage, err := encodeFile(personPath)
	if err != nil {
		return err
	}
	clothingImage, err := encodeFile(clothingPath)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(usecases.TryOnInput{
		PersonImage:   personImage.String(),
		ClothingImage: clothingImage.String(),
	})
}

func encodeFile(path string) (valueobjects.ImageRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	// 拡張子ではなく中身から形式を判定する
	mimeType, err := valueobjects.DetectImageMimeType(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	return valueobjects.NewDataURL(mimeType, base64.StdEncoding.EncodeToString(data)), nil
}

// encodeDir writes <name>.txt holding a data URL for every image file in dir.
func encodeDir(dir, out string) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return 0, err
	}

	count := 0
	for _, file := range files {
		if file.IsDir() || !slices.Contains(validExtensions, strings.ToLower(filepath.Ext(file.Name()))) {
			continue
		}

		ref, err := encodeFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return count, err
		}

		// ファイル名の拡張子を除いたものをファイル名として保存
		name := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
		if err := os.WriteFile(filepath.Join(out, name+".txt"), []byte(ref.String()), 0o644); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}
