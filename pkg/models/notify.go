package models

import "time"

// ToastEvent is a fire-and-forget overlay notification. Delivery is
// best-effort; a surface that misses one is not retried.
type ToastEvent struct {
	Title    string        `json:"title"`
	Body     string        `json:"body"`
	Category Category      `json:"category"`
	Duration time.Duration `json:"duration"`
}

// FireEvent is emitted when a timer slot's alert window is entered for the
// first time. It carries everything a notification channel needs.
type FireEvent struct {
	Category   Category
	Occurrence Occurrence
	SlotIndex  int
	Remaining  time.Duration // time until the occurrence starts, at fire time
}
