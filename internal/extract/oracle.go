package extract

import (
	"context"
	"errors"
	"time"
)

// ErrOracleUnavailable - транзиентный сбой вызова оракула (сеть, таймаут,
// rate limit). Вызывающий может безопасно повторить все сообщение.
// Никогда не смешивается с исходом "не сообщение о посещаемости".
var ErrOracleUnavailable = errors.New("extraction oracle unavailable")

// Request - запрос фиксированной формы к оракулу извлечения
type Request struct {
	ReferenceDate time.Time // дата и день недели подставляются в промпт
	Text          string    // нормализованный текст сообщения
}

// Usage - количество токенов, израсходованных вызовом
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Response - сырой ответ оракула до разбора в кандидатов
type Response struct {
	Content string // JSON-тело ответа модели
	Model   string
	Usage   Usage
}

// Oracle - внешний сервис извлечения на естественном языке.
// Единственный метод с ограниченным временем выполнения; остальной
// конвейер не знает транспортного протокола.
type Oracle interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
