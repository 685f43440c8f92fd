package ai

import (
	"context"
	"time"
)

// Typewriter reveals text a few runes at a time. Each value is the text
// revealed so far; the last one is the whole text. The channel closes at
// the end or when ctx ends.
func Typewriter(ctx context.Context, text string, runesPerTick int, interval time.Duration) <-chan string {
	if runesPerTick < 1 {
		runesPerTick = 1
	}
	out := make(chan string)
	runes := []rune(text)

	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for shown := 0; shown < len(runes); {
			shown = min(shown+runesPerTick, len(runes))
			select {
			case out <- string(runes[:shown]):
			case <-ctx.Done():
				return
			}
			if shown == len(runes) {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
