// Package media は商品画像のローカル保存とBlurHashプレースホルダーの計算を提供する。
package media

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ItemImagesDir はアップロード画像を保存するメディアルート直下のディレクトリ名。
const ItemImagesDir = "item_images"

// allowedExtensions は受け付ける画像の拡張子。
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// IsImageFile は拡張子（大文字小文字を区別しない）が対応画像形式かどうかを返す。
func IsImageFile(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Store はメディアルート配下に画像ファイルを保存する。
type Store struct {
	root string
}

// NewStore はrootをメディアルートとするStoreを生成する。
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root はメディアルートのパスを返す。
func (s *Store) Root() string {
	return s.root
}

// Save はrの内容をitem_images配下に一意な名前で保存し、メディアルートからの相対パスを返す。
// 相対パスは常にスラッシュ区切り。
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}

	dir := filepath.Join(s.root, ItemImagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}

	rel := path.Join(ItemImagesDir, uuid.New().String()+ext)
	f, err := os.OpenFile(s.Path(rel), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close image file: %w", err)
	}
	return rel, nil
}

// Path はメディアルートからの相対パスを絶対（OS依存）パスに変換する。
func (s *Store) Path(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Remove は保存済みファイルを削除する。存在しない場合はエラーにしない。
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	if err := os.Remove(s.Path(rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
