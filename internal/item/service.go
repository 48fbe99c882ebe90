// Package item は商品カタログの閲覧・推薦・スタッフ編集機能を提供する。
package item

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cozyyu/internal/catalog"
	"github.com/hitoshi/cozyyu/internal/media"
	"github.com/hitoshi/cozyyu/internal/metrics"
	"github.com/hitoshi/cozyyu/internal/model"
	"github.com/hitoshi/cozyyu/internal/recommend"
	"github.com/hitoshi/cozyyu/internal/repository"
	"github.com/hitoshi/cozyyu/internal/security"
	"github.com/hitoshi/cozyyu/internal/suggest"
)

// MaxAvailableItems はおすすめ選択画面で選択肢として返す商品数の上限。
const MaxAvailableItems = 50

// FormValidator はスタッフ入力フォームの検証インターフェース。
type FormValidator interface {
	Validate(s any) error
}

// ImageStore は商品画像の保存先インターフェース。
type ImageStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Path(rel string) string
	Remove(rel string) error
}

// Service は商品カタログのサービス。
type Service struct {
	items      repository.ItemRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	users      repository.UserRepository
	store      ImageStore
	validator  FormValidator
	sanitizer  security.TextSanitizer
	metrics    metrics.MetricsCollector
	logger     *slog.Logger
	now        func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	items repository.ItemRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	users repository.UserRepository,
	store ImageStore,
	validator FormValidator,
	sanitizer security.TextSanitizer,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Service {
	return &Service{
		items:      items,
		categories: categories,
		tags:       tags,
		users:      users,
		store:      store,
		validator:  validator,
		sanitizer:  sanitizer,
		metrics:    collector,
		logger:     logger,
		now:        time.Now,
	}
}

// ListResult はListItemsの戻り値。
type ListResult struct {
	Items      []model.Item
	Categories []model.Category
}

// ListItems は未販売の商品を絞り込み条件付きで返す。絞り込み用に全カテゴリも返す。
func (s *Service) ListItems(ctx context.Context, filter model.ItemFilter) (*ListResult, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.CategoryName = strings.TrimSpace(filter.CategoryName)
	if filter.CategoryID != "" {
		if _, err := uuid.Parse(filter.CategoryID); err != nil {
			return nil, model.NewCategoryNotFoundError(filter.CategoryID)
		}
	}

	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Categories: categories}, nil
}

// ListCategories は全カテゴリを返す。
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

// DetailResult はGetDetailの戻り値。
type DetailResult struct {
	Item    *model.Item
	Related []model.Item
}

// GetDetail は商品詳細と関連商品を返す。
// 販売済みの商品も表示できるが、関連商品の候補は未販売の商品に限る。
func (s *Service) GetDetail(ctx context.Context, id string) (*DetailResult, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.NewItemNotFoundError(id)
	}

	pool, err := s.items.ListUnsold(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	related := recommend.RankRelated(*item, pool)
	s.metrics.RecordRanking(metrics.RankingRelated, len(pool), len(related), time.Since(start))

	return &DetailResult{Item: item, Related: related}, nil
}

// RecommendationResult はRecommendationsの戻り値。
// Selectedがnilの場合は商品が選択されていない。
type RecommendationResult struct {
	Available   []model.Item
	Selected    *model.Item
	Recommended []model.Item
}

// Recommendations はおすすめ選択画面の内容を返す。
// selectedIDが存在しない、または販売済みの商品を指す場合は未選択として扱い、エラーにしない。
func (s *Service) Recommendations(ctx context.Context, selectedID, query string) (*RecommendationResult, error) {
	available, err := s.items.List(ctx, model.ItemFilter{
		Query: strings.TrimSpace(query),
		Limit: MaxAvailableItems,
	})
	if err != nil {
		return nil, err
	}

	result := &RecommendationResult{Available: available, Recommended: []model.Item{}}
	if selectedID == "" {
		return result, nil
	}

	selected, err := s.items.FindByID(ctx, selectedID)
	if err != nil {
		return nil, err
	}
	if selected == nil || selected.IsSold {
		return result, nil
	}
	result.Selected = selected

	if selected.Style == "" && selected.Color == "" {
		return result, nil
	}

	pool, err := s.items.ListUnsold(ctx, selected.ID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result.Recommended = recommend.RankByStyleColor(*selected, pool)
	s.metrics.RecordRanking(metrics.RankingStyleColor, len(pool), len(result.Recommended), time.Since(start))

	return result, nil
}

// Autocomplete は検索ボックスの補完候補を返す。空のクエリではストアを参照しない。
func (s *Service) Autocomplete(ctx context.Context, q string) ([]suggest.Suggestion, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		s.metrics.RecordAutocomplete(metrics.AutocompleteNoHits)
		return []suggest.Suggestion{}, nil
	}

	names, err := s.items.DistinctNames(ctx)
	if err != nil {
		return nil, err
	}
	tagNames, err := s.tags.NamesWithPrefix(ctx, catalog.Fold(q), suggest.MaxTagNames)
	if err != nil {
		return nil, err
	}

	suggestions := suggest.Suggest(q, names, tagNames)
	if len(suggestions) == 0 {
		s.metrics.RecordAutocomplete(metrics.AutocompleteNoHits)
	} else {
		s.metrics.RecordAutocomplete(metrics.AutocompleteHit)
	}
	return suggestions, nil
}

// Create はスタッフが入力した商品を作成する。
func (s *Service) Create(ctx context.Context, userID string, form model.ItemForm) (*model.Item, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsStaff {
		return nil, model.NewForbiddenError()
	}

	now := s.now()
	item := &model.Item{
		ID:        uuid.New().String(),
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.applyForm(ctx, item, form); err != nil {
		return nil, err
	}
	item.IsSold = false

	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("商品の作成に失敗しました: %w", err)
	}
	return item, nil
}

// Update は所有者による商品の編集を行う。
// 所有者以外には商品が存在しないものとして応答する。
func (s *Service) Update(ctx context.Context, userID, id string, form model.ItemForm) (*model.Item, error) {
	item, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyForm(ctx, item, form); err != nil {
		return nil, err
	}
	item.UpdatedAt = s.now()

	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("商品の更新に失敗しました: %w", err)
	}
	return item, nil
}

// Delete は所有者による商品の削除を行う。保存済みの画像ファイルも削除する。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	item, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.items.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("商品の削除に失敗しました: %w", err)
	}
	s.removeImage(item.Image)
	return nil
}

// AttachImage は所有者がアップロードした画像を保存し、BlurHashを計算して商品に設定する。
func (s *Service) AttachImage(ctx context.Context, userID, id, filename string, r io.Reader) (*model.Item, error) {
	item, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !media.IsImageFile(filename) {
		return nil, model.NewInvalidImageError("неподдерживаемый формат файла")
	}

	rel, err := s.store.Save(filename, r)
	if err != nil {
		return nil, fmt.Errorf("画像の保存に失敗しました: %w", err)
	}

	placeholder, err := media.ComputeBlurHash(s.store.Path(rel))
	if err != nil {
		s.removeImage(rel)
		return nil, model.NewInvalidImageError("не удалось прочитать изображение")
	}

	if err := s.items.UpdateImage(ctx, item.ID, rel, placeholder); err != nil {
		s.removeImage(rel)
		return nil, err
	}

	s.removeImage(item.Image)
	item.Image = rel
	item.ImagePlaceholder = placeholder
	return item, nil
}

// findOwned はuserIDが所有する商品を返す。存在しない場合と所有者でない場合は同じエラーを返す。
func (s *Service) findOwned(ctx context.Context, userID, id string) (*model.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || userID == "" || item.CreatedBy != userID {
		return nil, model.NewItemNotFoundError(id)
	}
	return item, nil
}

// applyForm はフォームを検証・サニタイズして商品に反映する。
func (s *Service) applyForm(ctx context.Context, item *model.Item, form model.ItemForm) error {
	if err := s.validator.Validate(&form); err != nil {
		return err
	}

	name := s.sanitizer.Sanitize(form.Name)
	if name == "" {
		return model.NewValidationError(map[string]string{"name": "обязательное поле"})
	}

	var category *model.Category
	if form.CategoryID != "" {
		c, err := s.categories.FindByID(ctx, form.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return model.NewCategoryNotFoundError(form.CategoryID)
		}
		category = c
	}

	item.Name = name
	item.Description = s.sanitizer.Sanitize(form.Description)
	item.Price = form.Price
	item.Category = category
	item.Style = form.Style
	item.Color = strings.TrimSpace(form.Color)
	item.SizeCategory = form.SizeCategory
	item.Tags = normalizeTags(form.Tags)
	item.IsSold = form.IsSold
	return nil
}

// normalizeTags は前後の空白を除き、空と重複（大文字小文字を区別しない）を取り除く。
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := catalog.Fold(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func (s *Service) removeImage(rel string) {
	if rel == "" {
		return
	}
	if err := s.store.Remove(rel); err != nil {
		s.logger.Warn("画像ファイルの削除に失敗しました",
			slog.String("image", rel),
			slog.String("error", err.Error()),
		)
	}
}
