// Package loader はメディアディレクトリの画像ファイルから商品を一括登録するバッチ処理を提供する。
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cozyyu/internal/catalog"
	"github.com/hitoshi/cozyyu/internal/media"
	"github.com/hitoshi/cozyyu/internal/metrics"
	"github.com/hitoshi/cozyyu/internal/model"
	"github.com/hitoshi/cozyyu/internal/repository"
)

// 自動生成する価格の範囲（両端を含む）
const (
	MinPrice = 50000
	MaxPrice = 500000
)

// ErrMediaRootNotFound はメディアルートが存在しない場合のエラー。
var ErrMediaRootNotFound = errors.New("media root not found")

// StaffProvisioner は管理ユーザーのget-or-createを行うインターフェース。
type StaffProvisioner interface {
	EnsureStaffUser(ctx context.Context, username, password string) (*model.User, error)
}

// ImageStore は取り込んだ画像の保存先インターフェース。
type ImageStore interface {
	Root() string
	Save(originalName string, r io.Reader) (string, error)
	Path(rel string) string
	Remove(rel string) error
}

// Config はローダーの設定。
type Config struct {
	AdminUsername string
	AdminPassword string
}

// Options は1回の実行オプション。
type Options struct {
	Clear bool // 取り込み前に全商品を削除する
}

// Report は実行結果の集計。
type Report struct {
	Found   int
	Created int
	Skipped int
	Cleared int64
}

// Loader はメディアルート配下の画像ファイルを商品として登録する。
type Loader struct {
	items      repository.ItemRepository
	categories repository.CategoryRepository
	staff      StaffProvisioner
	store      ImageStore
	metrics    metrics.MetricsCollector
	logger     *slog.Logger
	config     Config
	price      func() int64
}

// New はLoaderを生成する。
func New(
	items repository.ItemRepository,
	categories repository.CategoryRepository,
	staff StaffProvisioner,
	store ImageStore,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
	config Config,
) *Loader {
	return &Loader{
		items:      items,
		categories: categories,
		staff:      staff,
		store:      store,
		metrics:    collector,
		logger:     logger,
		config:     config,
		price:      randomPrice,
	}
}

func randomPrice() int64 {
	return MinPrice + rand.Int64N(MaxPrice-MinPrice+1)
}

// Run は画像ファイルを走査して商品を登録する。
// 1件ごとの失敗は警告ログを出してスキップし、処理は継続する。
func (l *Loader) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{}

	admin, err := l.staff.EnsureStaffUser(ctx, l.config.AdminUsername, l.config.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("管理ユーザーの準備に失敗しました: %w", err)
	}

	if opts.Clear {
		n, err := l.items.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("既存商品の削除に失敗しました: %w", err)
		}
		report.Cleared = n
		l.logger.Warn("all items deleted", slog.Int64("deleted_count", n))
	}

	files, err := findImages(l.store.Root())
	if err != nil {
		return nil, err
	}
	report.Found = len(files)
	l.logger.Info("images found", slog.Int("count", len(files)))

	categories := make(map[string]*model.Category, len(catalog.CategoryNames()))
	for _, name := range catalog.CategoryNames() {
		c, err := l.categories.GetOrCreate(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("カテゴリの作成に失敗しました: %w", err)
		}
		categories[name] = c
	}

	start := time.Now()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		created, err := l.loadFile(ctx, admin, categories, path)
		if err != nil {
			return report, err
		}
		if created {
			report.Created++
		} else {
			report.Skipped++
		}
	}

	l.metrics.RecordIngestion(report.Created, report.Skipped)
	l.logger.Info("media ingestion completed",
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return report, nil
}

// loadFile は1ファイル分の商品を登録する。スキップした場合はfalseを返す。
// エラーはストアへの問い合わせ自体が失敗した場合のみ返す。
func (l *Loader) loadFile(ctx context.Context, admin *model.User, categories map[string]*model.Category, path string) (bool, error) {
	filename := filepath.Base(path)

	itemType, style, color, ok := ParseFilename(filename)
	if !ok {
		l.logger.Warn("failed to parse filename", slog.String("file", filename))
		return false, nil
	}

	categoryName, ok := catalog.CategoryForType(itemType)
	if !ok {
		l.logger.Warn("unknown item type",
			slog.String("file", filename),
			slog.String("type", itemType),
		)
		return false, nil
	}
	category := categories[categoryName]

	name := catalog.Capitalize(itemType)
	if style != "" {
		name += " " + catalog.Capitalize(style)
	}

	exists, err := l.items.ExistsByNameCategoryColor(ctx, name, category.ID, color)
	if err != nil {
		return false, fmt.Errorf("既存商品の確認に失敗しました: %w", err)
	}
	if exists {
		l.logger.Warn("item already exists",
			slog.String("name", name),
			slog.String("color", color),
		)
		return false, nil
	}

	styleKey, _ := catalog.StyleKey(style)
	descStyle := style
	if descStyle == "" {
		descStyle = "стандарт"
	}
	now := time.Now()
	item := &model.Item{
		ID:          uuid.New().String(),
		Name:        name,
		Description: fmt.Sprintf("%s в стиле %s", name, descStyle),
		Price:       l.price(),
		Category:    category,
		Style:       styleKey,
		Color:       color,
		CreatedBy:   admin.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.items.Create(ctx, item); err != nil {
		return false, fmt.Errorf("商品の作成に失敗しました: %w", err)
	}

	if err := l.attach(ctx, item, path, itemType, style, color); err != nil {
		l.logger.Error("failed to attach image",
			slog.String("file", filename),
			slog.String("error", err.Error()),
		)
		if err := l.items.Delete(ctx, item.ID); err != nil {
			l.logger.Error("failed to roll back item",
				slog.String("item_id", item.ID),
				slog.String("error", err.Error()),
			)
		}
		return false, nil
	}

	l.logger.Debug("item created", slog.String("name", name), slog.String("color", color))
	return true, nil
}

// attach は画像をメディアストレージにコピーしてBlurHashを計算し、タグを付与する。
func (l *Loader) attach(ctx context.Context, item *model.Item, path, itemType, style, color string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	rel, err := l.store.Save(filepath.Base(path), f)
	f.Close()
	if err != nil {
		return err
	}

	// デコードできない画像もプレースホルダーなしで登録する
	placeholder, err := media.ComputeBlurHash(l.store.Path(rel))
	if err != nil {
		l.logger.Warn("failed to compute blurhash",
			slog.String("image", rel),
			slog.String("error", err.Error()),
		)
		placeholder = ""
	}
	if err := l.items.UpdateImage(ctx, item.ID, rel, placeholder); err != nil {
		if rmErr := l.store.Remove(rel); rmErr != nil {
			l.logger.Warn("failed to remove image", slog.String("image", rel), slog.String("error", rmErr.Error()))
		}
		return err
	}

	var tags []string
	if style != "" {
		tags = append(tags, style)
	}
	if color != "" {
		tags = append(tags, color)
	}
	tags = append(tags, itemType)
	return l.items.AddTags(ctx, item.ID, tags)
}

// findImages はroot配下の画像ファイルを列挙する。item_imagesディレクトリは取り込み済みのため除外する。
func findImages(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrMediaRootNotFound, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == media.ItemImagesDir {
				return filepath.SkipDir
			}
			return nil
		}
		if media.IsImageFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("メディアディレクトリの走査に失敗しました: %w", err)
	}
	return files, nil
}
