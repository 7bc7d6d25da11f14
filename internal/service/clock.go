package service

import "time"

// Clock abstracts the time source so services are testable without real time.
// clockwork clocks satisfy it.
type Clock interface {
	Now() time.Time
}
