// internal/service/dedup.go
package service

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DedupGuard подавляет повторную обработку сообщения: платформа
// доставляет события как минимум один раз. Ограниченный по времени
// кэш в памяти процесса, передается в конвейер через конструктор,
// а не как глобальное состояние пакета. Best-effort: ложный пропуск
// приводит лишь к повторному идемпотентному upsert/delete.
type DedupGuard struct {
	cache *gocache.Cache
}

func NewDedupGuard(ttl time.Duration) *DedupGuard {
	return &DedupGuard{
		cache: gocache.New(ttl, ttl),
	}
}

// Seen атомарно помечает ключ обработанным и возвращает true,
// если он уже был помечен. Безопасен для конкурентного вызова.
func (g *DedupGuard) Seen(key string) bool {
	return g.cache.Add(key, struct{}{}, gocache.DefaultExpiration) != nil
}
