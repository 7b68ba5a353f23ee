package persistence

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"qrkeep/internal/persistence/interfaces"
	"qrkeep/internal/providers"
	"sync"

	json "github.com/goccy/go-json"
)

// FileKV keeps every key in memory and rewrites one compressed JSON file on each write.
type FileKV struct {
	mu         sync.Mutex
	path       string
	maxBytes   int
	data       map[string]string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileKV(path string, maxBytes int, compressor interfaces.CompressorInterface, logger providers.Logger) (*FileKV, error) {
	kv := &FileKV{
		path:       path,
		maxBytes:   maxBytes,
		data:       make(map[string]string),
		compressor: compressor,
		logger:     logger,
	}
	if err := kv.load(); err != nil {
		return nil, err
	}
	return kv, nil
}

func (f *FileKV) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return v, nil
}

func (f *FileKV) Set(key, value string) error {
	return f.SetMany(map[string]string{key: value})
}

// SetMany applies every value and rewrites the file once.
func (f *FileKV) SetMany(values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if exceedsQuota(f.maxBytes, f.data, values) {
		return interfaces.ErrQuotaExceeded
	}
	next := maps.Clone(f.data)
	maps.Copy(next, values)
	if err := f.writeFile(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *FileKV) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.data[key]; !ok {
		return nil
	}
	next := maps.Clone(f.data)
	delete(next, key)
	if err := f.writeFile(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *FileKV) Close() error {
	f.compressor.Close()
	return nil
}

// load reads the storage file. A missing file is an empty store; an unreadable one is
// moved aside to <path>.corrupt and the store starts empty.
func (f *FileKV) load() error {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read storage file: %w", err)
	}

	data, err := f.decode(raw)
	if err != nil {
		f.logger.Warnf(providers.TypeStore, "Storage file %s is unreadable, starting empty: %s", f.path, err)
		if err := os.Rename(f.path, f.path+".corrupt"); err != nil {
			f.logger.Errorf(providers.TypeStore, "Failed to move aside %s: %s", f.path, err)
		}
		return nil
	}
	f.data = data
	return nil
}

func (f *FileKV) decode(raw []byte) (map[string]string, error) {
	decompressed, err := f.compressor.Decompress(raw)
	if err != nil {
		return nil, err
	}
	var data map[string]string
	if err := json.Unmarshal(decompressed, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = make(map[string]string)
	}
	return data, nil
}

func (f *FileKV) writeFile(data map[string]string) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	compressed, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(compressed); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}
