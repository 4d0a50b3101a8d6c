package handler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// safeFilename strips any path components from a user-supplied filename so it
// can only address entries directly inside the storage directories.
func safeFilename(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" || base == "" {
		return "", fmt.Errorf("invalid filename")
	}
	return base, nil
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}
