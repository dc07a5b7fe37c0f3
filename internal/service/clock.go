package service

import "time"

// Clock отдаёт текущее время; в тестах подменяется
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
