package libgl

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"
)

// DefaultCacheExpiry bounds the age of cached program binaries, since a
// driver update may produce different code for the same source.
const DefaultCacheExpiry = 30 * 24 * time.Hour

// ShaderCache stores linked program binaries on disk, lz4 compressed and
// keyed by the source and the driver that compiled it.
type ShaderCache struct {
	Dir    string
	Expiry time.Duration
	env    Environment
}

// Cache is used by ShaderProgram.Compile. A nil cache disables caching.
var Cache *ShaderCache

func NewShaderCache(dir string, env Environment) *ShaderCache {
	return &ShaderCache{
		Dir:    dir,
		Expiry: DefaultCacheExpiry,
		env:    env,
	}
}

func (cache *ShaderCache) Key(source string) string {
	hasher := md5.New()
	hasher.Write([]byte(source))
	hasher.Write([]byte(cache.env.Vendor))
	hasher.Write([]byte(cache.env.Renderer))
	hasher.Write([]byte(cache.env.Version))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (cache *ShaderCache) path(source string) string {
	return filepath.Join(cache.Dir, cache.Key(source)+".bin.lz4")
}

// Load returns the cached binary for source. A missing or expired entry is
// not an error; ok is false in that case.
func (cache *ShaderCache) Load(source string) (format uint32, data []byte, ok bool, err error) {
	path := cache.path(source)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil, false, nil
	}
	if err != nil {
		return 0, nil, false, err
	}
	if cache.Expiry > 0 && time.Since(info.ModTime()) > cache.Expiry {
		return 0, nil, false, os.Remove(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, nil, false, err
	}
	defer file.Close()

	reader := lz4.NewReader(file)
	if err := binary.Read(reader, binary.LittleEndian, &format); err != nil {
		return 0, nil, false, fmt.Errorf("read shader cache %v: %w", path, err)
	}
	data, err = io.ReadAll(reader)
	if err != nil {
		return 0, nil, false, fmt.Errorf("read shader cache %v: %w", path, err)
	}
	return format, data, true, nil
}

func (cache *ShaderCache) Store(source string, format uint32, data []byte) error {
	if err := os.MkdirAll(cache.Dir, 0755); err != nil {
		return fmt.Errorf("create shader cache directory: %w", err)
	}

	buf := &bytes.Buffer{}
	writer := lz4.NewWriter(buf)
	binary.Write(writer, binary.LittleEndian, format)
	if _, err := writer.Write(data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	path := cache.path(source)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write shader cache: %w", err)
	}
	return os.Rename(tmp, path)
}
