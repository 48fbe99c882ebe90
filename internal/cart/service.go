// Package cart はセッションに保存される買い物カゴの操作を提供する。
package cart

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/hitoshi/cozyyu/internal/metrics"
	"github.com/hitoshi/cozyyu/internal/model"
	"github.com/hitoshi/cozyyu/internal/repository"
)

// カート操作の種類（メトリクスのラベル値）
const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpUpdate = "update"
)

// MaxQuantity は1行あたりの数量の上限。
const MaxQuantity = 999

// Service はカート操作のサービス。
// 同一セッションへの同時リクエストは後勝ちで、ロックは取らない。
type Service struct {
	sessions repository.SessionRepository
	items    repository.ItemRepository
	metrics  metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(sessions repository.SessionRepository, items repository.ItemRepository, collector metrics.MetricsCollector) *Service {
	return &Service{sessions: sessions, items: items, metrics: collector}
}

// View はカートの内容を商品情報と小計・合計付きで返す。
// 削除済みの商品はカートに残っていても無視する。
func (s *Service) View(ctx context.Context, sessionID string) (*model.CartView, error) {
	c, err := s.sessions.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := &model.CartView{Lines: []model.CartLine{}}
	if len(c) == 0 {
		return view, nil
	}

	items, err := s.items.FindByIDs(ctx, c.ItemIDs())
	if err != nil {
		return nil, fmt.Errorf("カート内商品の取得に失敗しました: %w", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	for _, item := range items {
		qty := c[item.ID]
		if qty <= 0 {
			continue
		}
		subtotal := item.Price * int64(qty)
		view.Lines = append(view.Lines, model.CartLine{Item: item, Qty: qty, Subtotal: subtotal})
		view.Total += subtotal
	}
	return view, nil
}

// Add は商品の数量を1つ増やす。商品が存在しない場合はITEM_NOT_FOUNDを返す。
func (s *Service) Add(ctx context.Context, sessionID, itemID string) (*model.CartView, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, model.NewItemNotFoundError(itemID)
	}

	c, err := s.sessions.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Set(item.ID, min(c[item.ID]+1, MaxQuantity))
	if err := s.sessions.SaveCart(ctx, sessionID, c); err != nil {
		return nil, err
	}

	s.metrics.RecordCartOperation(OpAdd)
	return s.View(ctx, sessionID)
}

// Remove はカートから商品を取り除く。カートにない場合も成功とする。
func (s *Service) Remove(ctx context.Context, sessionID, itemID string) (*model.CartView, error) {
	c, err := s.sessions.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := c[itemID]; ok {
		delete(c, itemID)
		if err := s.sessions.SaveCart(ctx, sessionID, c); err != nil {
			return nil, err
		}
	}

	s.metrics.RecordCartOperation(OpRemove)
	return s.View(ctx, sessionID)
}

// Update は数量を設定する。0以下の場合は行を削除する。
func (s *Service) Update(ctx context.Context, sessionID, itemID string, qty int) (*model.CartView, error) {
	c, err := s.sessions.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Set(itemID, qty)
	if err := s.sessions.SaveCart(ctx, sessionID, c); err != nil {
		return nil, err
	}

	s.metrics.RecordCartOperation(OpUpdate)
	return s.View(ctx, sessionID)
}

// ParseQuantity はリクエストの数量文字列を解釈する。
// 整数でない場合とMaxQuantityを超える場合はINVALID_QUANTITYを返す。0以下はそのまま返す。
func ParseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(raw)
	if err != nil || qty > MaxQuantity {
		return 0, model.NewInvalidQuantityError(raw)
	}
	return qty, nil
}
