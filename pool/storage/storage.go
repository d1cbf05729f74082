package storage

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"proxynest/internal/shared/logger"
	"proxynest/pool/model"
)

// Storage persists the full pool snapshot as an opaque blob. Load errors
// are not fatal to the pool: the manager falls back to an empty pool.
type Storage interface {
	Load() ([]*model.Record, error)
	Save(records []*model.Record) error
}

// FileStorage implements Storage with a msgpack-encoded file.
type FileStorage struct {
	filePath string
}

// NewFileStorage creates a FileStorage persisting to filePath.
func NewFileStorage(filePath string) *FileStorage {
	return &FileStorage{filePath: filePath}
}

// Load reads and decodes the snapshot file. A missing or empty file
// yields an empty pool; a corrupt one yields a decode error the caller
// is expected to absorb.
func (fs *FileStorage) Load() ([]*model.Record, error) {
	l := logger.WithComponent("ProxyPool/Storage")

	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			l.Info().Str("path", fs.filePath).Msg("Proxy data file not found, starting with an empty pool.")
			return []*model.Record{}, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return []*model.Record{}, nil
	}

	var records []*model.Record
	if err := msgpack.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode proxy snapshot: %w", err)
	}

	l.Info().Int("count", len(records)).Msg("Successfully loaded proxies from file.")
	return records, nil
}

// Save encodes the snapshot and writes it out. The write is not atomic;
// a crash mid-write may corrupt the file, which Load then treats as an
// empty pool.
func (fs *FileStorage) Save(records []*model.Record) error {
	l := logger.WithComponent("ProxyPool/Storage")

	data, err := msgpack.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode proxy snapshot: %w", err)
	}
	if err := os.WriteFile(fs.filePath, data, 0644); err != nil {
		return err
	}

	l.Debug().Int("count", len(records)).Msg("Successfully saved proxies to file.")
	return nil
}
