package cache

import "time"

// Expirer is any store the janitor can sweep.
type Expirer interface {
	DropExpired() int
}

// Janitor periodically sweeps expired entries out of registered stores.
type Janitor struct {
	stores []Expirer
	stop   chan struct{}
	done   chan struct{}
}

func NewJanitor() *Janitor {
	return &Janitor{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (j *Janitor) Register(store Expirer) {
	j.stores = append(j.stores, store)
}

func (j *Janitor) Start(interval time.Duration) {
	go j.run(interval)
}

func (j *Janitor) run(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, store := range j.stores {
				store.DropExpired()
			}
		case <-j.stop:
			return
		}
	}
}

func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}
