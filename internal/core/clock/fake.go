package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock. Like time.Ticker, a fake ticker that
// falls behind delivers a single tick and drops the ones it missed.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

// NewFake returns a Fake clock set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake time.
func (fake *Fake) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.now
}

// NewTicker creates a ticker whose first tick is due one interval from now.
func (fake *Fake) NewTicker(interval time.Duration) Ticker {
	if interval <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()

	ticker := &fakeTicker{
		clock:    fake,
		c:        make(chan time.Time),
		stopped:  make(chan struct{}),
		interval: interval,
		next:     fake.now.Add(interval),
	}
	fake.tickers = append(fake.tickers, ticker)
	return ticker
}

// Advance moves the clock forward by delta and delivers one tick to every
// ticker that became due. Each delivery blocks until the tick is received
// or the ticker is stopped.
func (fake *Fake) Advance(delta time.Duration) {
	fake.mu.Lock()
	fake.now = fake.now.Add(delta)
	now := fake.now
	var due []*fakeTicker
	for _, ticker := range fake.tickers {
		if ticker.next.After(now) {
			continue
		}
		due = append(due, ticker)
		for !ticker.next.After(now) {
			ticker.next = ticker.next.Add(ticker.interval)
		}
	}
	fake.mu.Unlock()

	for _, ticker := range due {
		select {
		case ticker.c <- now:
		case <-ticker.stopped:
		}
	}
}

// Step advances the clock one interval at a time, delivering every tick.
func (fake *Fake) Step(total, interval time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += interval {
		step := interval
		if total-elapsed < interval {
			step = total - elapsed
		}
		fake.Advance(step)
	}
}

// ActiveTickers returns the number of tickers not yet stopped.
func (fake *Fake) ActiveTickers() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.tickers)
}

func (fake *Fake) remove(target *fakeTicker) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for index, ticker := range fake.tickers {
		if ticker == target {
			fake.tickers = append(fake.tickers[:index], fake.tickers[index+1:]...)
			return
		}
	}
}

type fakeTicker struct {
	clock    *Fake
	c        chan time.Time
	stopped  chan struct{}
	once     sync.Once
	interval time.Duration
	next     time.Time
}

func (ticker *fakeTicker) C() <-chan time.Time {
	return ticker.c
}

func (ticker *fakeTicker) Stop() {
	ticker.once.Do(func() {
		close(ticker.stopped)
		ticker.clock.remove(ticker)
	})
}
