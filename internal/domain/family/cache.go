package family

import "time"

type Cache interface {
	GetByCode(code string) (*Family, bool)
	SetByCode(code string, family *Family, ttl time.Duration)
	DeleteByCode(code string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByCode(string) (*Family, bool) {
	return nil, false
}

func (noopCache) SetByCode(string, *Family, time.Duration) {}

func (noopCache) DeleteByCode(string) {}

func (noopCache) Clear() {}
