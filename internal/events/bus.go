// Package events - синхронная in-process шина событий.
// Обработчики вызываются прямо внутри Publish, в той же горутине,
// поэтому ошибка обработчика возвращается публикующему коду.
package events

import (
	"errors"
	"sync"
)

var ErrBusClosed = errors.New("event bus is closed")

type EventType string

type Event interface {
	EventType() EventType
}

// Handler - обработчик события. Ошибка прерывает рассылку.
type Handler func(Event) error

type Bus interface {
	Publish(event Event) error
	Subscribe(eventType EventType, handler Handler)
	SubscribeAll(handler Handler)
	Close()
	HandlerCount() int
}

type InProcessBus struct {
	handlers    map[EventType][]Handler
	allHandlers []Handler
	mu          sync.RWMutex
	closed      bool
}

func NewBus() *InProcessBus {
	return &InProcessBus{
		handlers:    make(map[EventType][]Handler),
		allHandlers: make([]Handler, 0),
	}
}

// Publish вызывает сначала обработчики типа события, затем глобальные.
// Первая ошибка останавливает рассылку и возвращается.
func (b *InProcessBus) Publish(event Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	typed := append([]Handler(nil), b.handlers[event.EventType()]...)
	global := append([]Handler(nil), b.allHandlers...)
	b.mu.RUnlock()

	for _, handler := range typed {
		if err := handler(event); err != nil {
			return err
		}
	}
	for _, handler := range global {
		if err := handler(event); err != nil {
			return err
		}
	}
	return nil
}

// PublishAll публикует события по порядку до первой ошибки
func (b *InProcessBus) PublishAll(events []Event) error {
	for _, event := range events {
		if err := b.Publish(event); err != nil {
			return err
		}
	}
	return nil
}

func (b *InProcessBus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

func (b *InProcessBus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.allHandlers = append(b.allHandlers, handler)
}

func (b *InProcessBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
}

func (b *InProcessBus) HandlerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := len(b.allHandlers)
	for _, handlers := range b.handlers {
		count += len(handlers)
	}
	return count
}

var _ Bus = (*InProcessBus)(nil)
