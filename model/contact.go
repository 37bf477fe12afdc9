// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"regexp"

	"github.com/google/uuid"
)

// メールアドレスの簡易チェック。厳密なRFC検証ではなく、
// 「@の前後に空白なし文字があり、ドメインにドットを含む」程度の形状確認。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactMessage はお問い合わせフォームの送信内容を表すモデルです。
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	Phone     string    `json:"phone,omitempty"` // 任意項目
	Email     string    `json:"email"`
	Message   string    `json:"message"`
}

// NewContactMessage はContactMessageの新しいインスタンスを作成します。
func NewContactMessage(firstName, phone, email, message string) (*ContactMessage, error) {
	msg := &ContactMessage{
		ID:        uuid.New(),
		FirstName: firstName,
		Phone:     phone,
		Email:     email,
		Message:   message,
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

// Validate はお問い合わせ内容のバリデーションを行います。
func (m *ContactMessage) Validate() error {
	if m.FirstName == "" {
		return NewValidationError("firstName is required")
	}
	if m.Email == "" {
		return NewValidationError("email is required")
	}
	if !emailPattern.MatchString(m.Email) {
		return NewValidationError("email is not a valid address")
	}
	if m.Message == "" {
		return NewValidationError("message is required")
	}
	return nil
}
