package session

import (
	"encoding/json"
	"os"
	"sync"
)

// KV is the persisted key/value surface the store runs on. Implementations
// must tolerate reads of absent keys (return "", false).
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryKV is an in-process KV, used by tests and as a fallback when no
// persistent store is configured.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *MemoryKV) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// FileKV persists keys as a flat JSON object on disk so a session survives
// process restarts. Every mutation rewrites the whole file; the payload is a
// handful of short strings, so this is cheap.
type FileKV struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

func NewFileKV(path string) (*FileKV, error) {
	kv := &FileKV{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return kv, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &kv.data); err != nil {
		// A corrupt file is treated as an empty session rather than a
		// fatal error; the next write replaces it.
		kv.data = make(map[string]string)
	}
	return kv, nil
}

func (f *FileKV) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileKV) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.flush()
}

func (f *FileKV) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	f.flush()
}

func (f *FileKV) flush() {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return
	}
	_ = os.WriteFile(f.path, raw, 0o600)
}
