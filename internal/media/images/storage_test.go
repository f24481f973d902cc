package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorage(t *testing.T) {
	t.Run("creates storage with valid path", func(t *testing.T) {
		tmpDir := t.TempDir()

		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, storage)

		// Verify recipes directory was created.
		recipesPath := filepath.Join(tmpDir, "recipes")
		info, err := os.Stat(recipesPath)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		storage, err := NewStorage("")
		assert.Error(t, err)
		assert.Nil(t, storage)
		assert.Contains(t, err.Error(), "base path cannot be empty")
	})

	t.Run("creates nested directories if needed", func(t *testing.T) {
		tmpDir := t.TempDir()
		nestedPath := filepath.Join(tmpDir, "nested", "path")

		storage, err := NewStorage(nestedPath)
		require.NoError(t, err)
		require.NotNil(t, storage)

		recipesPath := filepath.Join(nestedPath, "recipes")
		info, err := os.Stat(recipesPath)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("custom subdirectory", func(t *testing.T) {
		tmpDir := t.TempDir()

		storage, err := NewStorageWithSubdir(tmpDir, "avatars")
		require.NoError(t, err)
		require.NotNil(t, storage)

		info, err := os.Stat(filepath.Join(tmpDir, "avatars"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestStorage_Save(t *testing.T) {
	t.Run("saves photo data successfully", func(t *testing.T) {
		storage := setupTestStorage(t)
		testData := []byte("test image data")

		err := storage.Save("rcp-123.jpg", testData)
		require.NoError(t, err)

		// Verify file was created.
		path := storage.Path("rcp-123.jpg")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})

	t.Run("returns error for empty filename", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Save("", []byte("test image data"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "filename cannot be empty")
	})

	t.Run("returns error for empty image data", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Save("rcp-123.jpg", []byte{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "image data cannot be empty")
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		storage := setupTestStorage(t)
		filename := "rcp-123.jpg"

		err := storage.Save(filename, []byte("initial data"))
		require.NoError(t, err)

		newData := []byte("updated data")
		err = storage.Save(filename, newData)
		require.NoError(t, err)

		data, err := storage.Get(filename)
		require.NoError(t, err)
		assert.Equal(t, newData, data)
	})
}

func TestStorage_Get(t *testing.T) {
	t.Run("retrieves saved photo data", func(t *testing.T) {
		storage := setupTestStorage(t)
		testData := []byte("test image data")
		filename := "rcp-123.png"

		err := storage.Save(filename, testData)
		require.NoError(t, err)

		data, err := storage.Get(filename)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})

	t.Run("returns error for non-existent photo", func(t *testing.T) {
		storage := setupTestStorage(t)

		data, err := storage.Get("missing.jpg")
		assert.Error(t, err)
		assert.Nil(t, data)
		assert.Contains(t, err.Error(), "photo not found")
	})

	t.Run("returns error for empty filename", func(t *testing.T) {
		storage := setupTestStorage(t)

		data, err := storage.Get("")
		assert.Error(t, err)
		assert.Nil(t, data)
		assert.Contains(t, err.Error(), "filename cannot be empty")
	})
}

func TestStorage_Exists(t *testing.T) {
	storage := setupTestStorage(t)

	require.NoError(t, storage.Save("rcp-123.jpg", []byte("test data")))

	assert.True(t, storage.Exists("rcp-123.jpg"))
	assert.False(t, storage.Exists("missing.jpg"))
	assert.False(t, storage.Exists(""))
}

func TestStorage_Delete(t *testing.T) {
	t.Run("deletes existing photo", func(t *testing.T) {
		storage := setupTestStorage(t)
		filename := "rcp-123.jpg"

		require.NoError(t, storage.Save(filename, []byte("test data")))
		require.True(t, storage.Exists(filename))

		err := storage.Delete(filename)
		require.NoError(t, err)
		assert.False(t, storage.Exists(filename))
	})

	t.Run("succeeds when photo does not exist", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Delete("missing.jpg")
		assert.NoError(t, err) // Not an error to delete non-existent file.
	})

	t.Run("returns error for empty filename", func(t *testing.T) {
		storage := setupTestStorage(t)

		err := storage.Delete("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "filename cannot be empty")
	})
}

func TestStorage_Hash(t *testing.T) {
	t.Run("computes consistent hash", func(t *testing.T) {
		storage := setupTestStorage(t)
		filename := "rcp-123.jpg"

		require.NoError(t, storage.Save(filename, []byte("test image data")))

		hash1, err := storage.Hash(filename)
		require.NoError(t, err)
		assert.NotEmpty(t, hash1)

		hash2, err := storage.Hash(filename)
		require.NoError(t, err)
		assert.Equal(t, hash1, hash2)

		// SHA256 hex is 64 characters.
		assert.Len(t, hash1, 64)
	})

	t.Run("different data produces different hash", func(t *testing.T) {
		storage := setupTestStorage(t)

		require.NoError(t, storage.Save("rcp-1.jpg", []byte("data1")))
		require.NoError(t, storage.Save("rcp-2.jpg", []byte("data2")))

		hash1, err := storage.Hash("rcp-1.jpg")
		require.NoError(t, err)

		hash2, err := storage.Hash("rcp-2.jpg")
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("returns error for non-existent photo", func(t *testing.T) {
		storage := setupTestStorage(t)

		hash, err := storage.Hash("missing.jpg")
		assert.Error(t, err)
		assert.Empty(t, hash)
	})
}

func TestStorage_Path(t *testing.T) {
	t.Run("generates correct path", func(t *testing.T) {
		tmpDir := t.TempDir()
		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)

		path := storage.Path("rcp-123.jpg")
		expected := filepath.Join(tmpDir, "recipes", "rcp-123.jpg")
		assert.Equal(t, expected, path)
	})

	t.Run("strips directory traversal", func(t *testing.T) {
		tmpDir := t.TempDir()
		storage, err := NewStorage(tmpDir)
		require.NoError(t, err)

		path := storage.Path("../../etc/passwd")
		expected := filepath.Join(tmpDir, "recipes", "passwd")
		assert.Equal(t, expected, path)
	})
}

func TestStorage_Concurrent(t *testing.T) {
	t.Run("handles concurrent writes safely", func(t *testing.T) {
		storage := setupTestStorage(t)
		filename := "rcp-123.jpg"

		const goroutines = 10
		done := make(chan bool, goroutines)

		for i := 0; i < goroutines; i++ {
			go func(n int) {
				data := []byte{byte(n + 1)}
				err := storage.Save(filename, data)
				assert.NoError(t, err)
				done <- true
			}(i)
		}

		for i := 0; i < goroutines; i++ {
			<-done
		}

		assert.True(t, storage.Exists(filename))
		data, err := storage.Get(filename)
		assert.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("handles concurrent reads safely", func(t *testing.T) {
		storage := setupTestStorage(t)
		filename := "rcp-123.jpg"
		testData := []byte("test data")

		require.NoError(t, storage.Save(filename, testData))

		const goroutines = 10
		done := make(chan bool, goroutines)

		for i := 0; i < goroutines; i++ {
			go func() {
				data, err := storage.Get(filename)
				assert.NoError(t, err)
				assert.Equal(t, testData, data)
				done <- true
			}()
		}

		for i := 0; i < goroutines; i++ {
			<-done
		}
	})
}

// setupTestStorage creates a Storage instance with a temporary directory.
func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	tmpDir := t.TempDir()
	storage, err := NewStorage(tmpDir)
	require.NoError(t, err)
	return storage
}
