package item

import (
	"context"
	"time"

	"github.com/hitoshi/cozyyu/internal/model"
	"github.com/hitoshi/cozyyu/internal/repository"
)

// mockItemRepo はテスト用のItemRepositoryモック。
type mockItemRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.Item, error)
	findByIDsFn     func(ctx context.Context, ids []string) ([]model.Item, error)
	listFn          func(ctx context.Context, filter model.ItemFilter) ([]model.Item, error)
	listUnsoldFn    func(ctx context.Context, excludeID string) ([]model.Item, error)
	distinctNamesFn func(ctx context.Context) ([]string, error)
	existsFn        func(ctx context.Context, name, categoryID, color string) (bool, error)
	createFn        func(ctx context.Context, item *model.Item) error
	updateFn        func(ctx context.Context, item *model.Item) error
	addTagsFn       func(ctx context.Context, itemID string, names []string) error
	updateImageFn   func(ctx context.Context, itemID, image, placeholder string) error
	deleteFn        func(ctx context.Context, id string) error
	deleteAllFn     func(ctx context.Context) (int64, error)
}

func (m *mockItemRepo) FindByID(ctx context.Context, id string) (*model.Item, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockItemRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Item, error) {
	if m.findByIDsFn != nil {
		return m.findByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockItemRepo) List(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockItemRepo) ListUnsold(ctx context.Context, excludeID string) ([]model.Item, error) {
	if m.listUnsoldFn != nil {
		return m.listUnsoldFn(ctx, excludeID)
	}
	return nil, nil
}

func (m *mockItemRepo) DistinctNames(ctx context.Context) ([]string, error) {
	if m.distinctNamesFn != nil {
		return m.distinctNamesFn(ctx)
	}
	return nil, nil
}

func (m *mockItemRepo) ExistsByNameCategoryColor(ctx context.Context, name, categoryID, color string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, name, categoryID, color)
	}
	return false, nil
}

func (m *mockItemRepo) Create(ctx context.Context, item *model.Item) error {
	if m.createFn != nil {
		return m.createFn(ctx, item)
	}
	return nil
}

func (m *mockItemRepo) Update(ctx context.Context, item *model.Item) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, item)
	}
	return nil
}

func (m *mockItemRepo) AddTags(ctx context.Context, itemID string, names []string) error {
	if m.addTagsFn != nil {
		return m.addTagsFn(ctx, itemID, names)
	}
	return nil
}

func (m *mockItemRepo) UpdateImage(ctx context.Context, itemID, image, placeholder string) error {
	if m.updateImageFn != nil {
		return m.updateImageFn(ctx, itemID, image, placeholder)
	}
	return nil
}

func (m *mockItemRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockItemRepo) DeleteAll(ctx context.Context) (int64, error) {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx)
	}
	return 0, nil
}

// mockCategoryRepo はテスト用のCategoryRepositoryモック。
type mockCategoryRepo struct {
	listFn        func(ctx context.Context) ([]model.Category, error)
	findByIDFn    func(ctx context.Context, id string) (*model.Category, error)
	getOrCreateFn func(ctx context.Context, name string) (*model.Category, error)
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCategoryRepo) GetOrCreate(ctx context.Context, name string) (*model.Category, error) {
	if m.getOrCreateFn != nil {
		return m.getOrCreateFn(ctx, name)
	}
	return &model.Category{ID: "cat-" + name, Name: name}, nil
}

// mockTagRepo はテスト用のTagRepositoryモック。
type mockTagRepo struct {
	namesWithPrefixFn func(ctx context.Context, prefix string, limit int) ([]string, error)
}

func (m *mockTagRepo) NamesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	if m.namesWithPrefixFn != nil {
		return m.namesWithPrefixFn(ctx, prefix, limit)
	}
	return nil, nil
}

// mockUserRepo はテスト用のUserRepositoryモック。
type mockUserRepo struct {
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	createFn         func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

// mockMetrics は記録内容を保持するMetricsCollectorモック。
type mockMetrics struct {
	rankings      []string
	autocompletes []string
	ingested      [2]int
}

func (m *mockMetrics) RecordRanking(kind string, _ int, _ int, _ time.Duration) {
	m.rankings = append(m.rankings, kind)
}

func (m *mockMetrics) RecordAutocomplete(result string) {
	m.autocompletes = append(m.autocompletes, result)
}

func (m *mockMetrics) RecordCartOperation(string) {}

func (m *mockMetrics) RecordHTTPStatus(int) {}

func (m *mockMetrics) RecordIngestion(created, skipped int) {
	m.ingested[0] += created
	m.ingested[1] += skipped
}

var (
	_ repository.ItemRepository     = (*mockItemRepo)(nil)
	_ repository.CategoryRepository = (*mockCategoryRepo)(nil)
	_ repository.TagRepository      = (*mockTagRepo)(nil)
	_ repository.UserRepository     = (*mockUserRepo)(nil)
)
