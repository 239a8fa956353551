// Package feed раздает только что созданные посты подписчикам (websocket-клиентам).
package feed

import (
	"sync"
	"time"

	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/google/uuid"
)

// Event - то, что получает подписчик о новом посте.
type Event struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Group   string    `json:"group,omitempty"`
	PubDate time.Time `json:"pub_date"`
}

// NewEvent собирает событие из поста; Author и Group должны быть уже загружены.
func NewEvent(p *domain.Post) Event {
	ev := Event{ID: p.ID, Text: p.Text, PubDate: p.PubDate}
	if p.Author != nil {
		ev.Author = p.Author.Username
	}
	if p.Group != nil {
		ev.Group = p.Group.Slug
	}
	return ev
}

// Hub хранит каналы подписчиков.
type Hub struct {
	mu sync.RWMutex
	//   map[subscriberID] channel
	subs map[string]chan Event
}

// NewHub - конструктор для нашего наблюдателя.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan Event)}
}

// Subscribe регистрирует подписчика. Вызывающий обязан вызвать cancel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	id := uuid.NewString()

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish рассылает событие, не блокируясь на медленных подписчиках.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// Клиент не успевает читать, пропускаем
		}
	}
}

// Subscribers - число активных подписчиков.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
