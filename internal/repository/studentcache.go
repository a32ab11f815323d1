package repository

import (
	"context"
	"math/rand"
	"sync"
)

// StudentCache is a read-heavy mirror of the students table used by the
// student role to pick personas without a sheet round trip per request.
//
// Reloads are wholesale and explicit: every mutation re-reads the full
// table before returning, so the caller observes its own write. The
// cache does not see writers in other processes until the next reload.
type StudentCache struct {
	mu       sync.RWMutex
	repo     *Students
	students []Student
	loaded   bool
}

// NewStudentCache creates an empty cache over the repository. Call
// Reload (or any mutation) before reading.
func NewStudentCache(repo *Students) *StudentCache {
	return &StudentCache{repo: repo}
}

// Reload replaces the mirror with the table's current contents.
func (c *StudentCache) Reload(ctx context.Context) error {
	students, err := c.repo.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.students = students
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Add persists a persona and reloads the mirror.
func (c *StudentCache) Add(ctx context.Context, p *Persona) (string, error) {
	id, err := c.repo.Create(ctx, p)
	if err != nil {
		return "", err
	}
	if err := c.Reload(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// Clear wipes the table and empties the mirror.
func (c *StudentCache) Clear(ctx context.Context) error {
	if err := c.repo.ClearAll(ctx); err != nil {
		return err
	}
	return c.Reload(ctx)
}

// Loaded reports whether the mirror has been populated at least once.
func (c *StudentCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// All returns a copy of the mirrored students.
func (c *StudentCache) All() []Student {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Student(nil), c.students...)
}

// Len returns the number of mirrored students.
func (c *StudentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.students)
}

// Random returns a uniformly picked student, or false when the mirror
// is empty.
func (c *StudentCache) Random() (Student, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.students) == 0 {
		return Student{}, false
	}
	return c.students[rand.Intn(len(c.students))], true
}
