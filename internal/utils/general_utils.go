package utils

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func ParseID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}

// ObjectKey builds a collision-free storage key that keeps the upload's extension.
func ObjectKey(prefix, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return prefix + "/" + uuid.NewString() + ext
}
