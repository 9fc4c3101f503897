package cache

import "errors"

// Tiered reads the front tier first and copies back-tier hits forward
type Tiered struct {
	front Store
	back  Store
}

// NewTiered stacks front over back
func NewTiered(front, back Store) *Tiered {
	return &Tiered{front: front, back: back}
}

func (t *Tiered) Load(key Key) (Entry, bool) {
	if e, ok := t.front.Load(key); ok {
		return e, true
	}
	e, ok := t.back.Load(key)
	if ok {
		_ = t.front.Save(key, e)
	}
	return e, ok
}

func (t *Tiered) Save(key Key, e Entry) error {
	return errors.Join(t.front.Save(key, e), t.back.Save(key, e))
}

func (t *Tiered) Purge(key Key) error {
	return errors.Join(t.front.Purge(key), t.back.Purge(key))
}

func (t *Tiered) Reset() error {
	return errors.Join(t.front.Reset(), t.back.Reset())
}
