// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"sort"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, catalog, cart, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeItemNotFound       = "ITEM_NOT_FOUND"
	ErrCodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidImage       = "INVALID_IMAGE"
)

// NewItemNotFoundError は商品未検出エラーを生成する。
// 所有者以外による編集・削除もこのエラーで応答する。
func NewItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:     ErrCodeItemNotFound,
		Message:  fmt.Sprintf("Товар не найден: %s", itemID),
		Category: "catalog",
		Action:   "Проверьте идентификатор товара.",
	}
}

// NewCategoryNotFoundError はカテゴリ未検出エラーを生成する。
func NewCategoryNotFoundError(categoryID string) *APIError {
	return &APIError{
		Code:     ErrCodeCategoryNotFound,
		Message:  fmt.Sprintf("Категория не найдена: %s", categoryID),
		Category: "validation",
		Action:   "Выберите категорию из списка.",
	}
}

// NewValidationError は入力検証エラーを生成する。
// fieldsはフィールド名から理由へのマップで、メッセージにはフィールド名順で列挙する。
func NewValidationError(fields map[string]string) *APIError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name])
	}

	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  "Некорректные данные формы: " + strings.Join(parts, "; "),
		Category: "validation",
		Action:   "Исправьте отмеченные поля и отправьте форму снова.",
	}
}

// NewInvalidQuantityError は数量の形式エラーを生成する。
func NewInvalidQuantityError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidQuantity,
		Message:  fmt.Sprintf("Некорректное количество: %s", raw),
		Category: "cart",
		Action:   "Укажите целое число.",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "Недостаточно прав для этого действия.",
		Category: "auth",
		Action:   "Войдите под учётной записью сотрудника.",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Требуется вход в систему.",
		Category: "auth",
		Action:   "Войдите в систему.",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// ユーザー名とパスワードのどちらが誤っているかは区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Неверное имя пользователя или пароль.",
		Category: "auth",
		Action:   "Проверьте данные и попробуйте снова.",
	}
}

// NewInvalidImageError は画像アップロードの形式エラーを生成する。
func NewInvalidImageError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidImage,
		Message:  fmt.Sprintf("Некорректное изображение: %s", reason),
		Category: "validation",
		Action:   "Загрузите файл JPEG, PNG или WebP.",
	}
}
