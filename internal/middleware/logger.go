package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// sensitiveFields contains substrings of JSON field names that get redacted
// before a request body is logged.
var sensitiveFields = []string{
	"password",
	"token",
	"api_key",
	"apikey",
	"secret",
	"authorization",
	"cookie",
	"session",
}

// sensitiveHeaderPatterns contains regex patterns for sensitive headers
var sensitiveHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)authorization`),
	regexp.MustCompile(`(?i)api[-_]?key`),
	regexp.MustCompile(`(?i)token`),
	regexp.MustCompile(`(?i)secret`),
	regexp.MustCompile(`(?i)cookie`),
	regexp.MustCompile(`(?i)session`),
}

// LoggerConfig holds configuration for the logger middleware
type LoggerConfig struct {
	Format string // "json" or "pretty"
	Level  string // "debug", "info", "warn", "error"
}

// LogEntry represents one logged request/response pair
type LogEntry struct {
	Timestamp   string            `json:"timestamp"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	StatusCode  int               `json:"status_code"`
	Latency     string            `json:"latency"`
	ClientIP    string            `json:"client_ip"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestBody interface{}       `json:"request_body,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// RequestLogger creates a middleware that logs every API request. JSON bodies
// are logged with sensitive fields redacted; multipart uploads are logged by
// size only, never by content.
func RequestLogger(config LoggerConfig) gin.HandlerFunc {
	debug := config.Level == "debug"

	return func(c *gin.Context) {
		startTime := time.Now()

		var requestBody []byte
		contentType := c.ContentType()
		if debug && c.Request.Body != nil && strings.Contains(contentType, "json") {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		entry := LogEntry{
			Timestamp:  time.Now().Format(time.RFC3339),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			Latency:    time.Since(startTime).String(),
			ClientIP:   c.ClientIP(),
		}

		if debug {
			entry.Headers = redactHeaders(c.Request.Header)
			if len(requestBody) > 0 {
				entry.RequestBody = parseAndRedactBody(requestBody)
			} else if strings.Contains(contentType, "multipart") {
				entry.RequestBody = fmt.Sprintf("multipart payload (%d bytes)", c.Request.ContentLength)
			}
		}

		if len(c.Errors) > 0 {
			entry.Error = c.Errors.String()
		}

		if config.Format == "pretty" {
			printPrettyLog(entry)
		} else {
			printJSONLog(entry)
		}
	}
}

// redactHeaders redacts sensitive headers
func redactHeaders(headers map[string][]string) map[string]string {
	redacted := make(map[string]string)
	for key, values := range headers {
		if isSensitiveHeader(key) {
			redacted[key] = "[REDACTED]"
		} else {
			redacted[key] = strings.Join(values, ", ")
		}
	}
	return redacted
}

// isSensitiveHeader checks if a header name is sensitive
func isSensitiveHeader(headerName string) bool {
	for _, pattern := range sensitiveHeaderPatterns {
		if pattern.MatchString(headerName) {
			return true
		}
	}
	return false
}

// parseAndRedactBody parses a JSON body and redacts sensitive fields
func parseAndRedactBody(body []byte) interface{} {
	var jsonBody interface{}
	if err := json.Unmarshal(body, &jsonBody); err != nil {
		bodyStr := string(body)
		if len(bodyStr) > 1000 {
			bodyStr = bodyStr[:1000] + "... (truncated)"
		}
		return bodyStr
	}

	redactSensitiveFields(jsonBody)
	return jsonBody
}

// redactSensitiveFields recursively redacts sensitive fields in JSON data
func redactSensitiveFields(data interface{}) {
	switch v := data.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if isSensitiveField(key) {
				v[key] = "[REDACTED]"
			} else {
				redactSensitiveFields(value)
			}
		}
	case []interface{}:
		for _, item := range v {
			redactSensitiveFields(item)
		}
	}
}

// isSensitiveField checks if a field name is sensitive
func isSensitiveField(fieldName string) bool {
	lowerField := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(lowerField, sensitive) {
			return true
		}
	}
	return false
}

// printJSONLog outputs the log entry as a single JSON line
func printJSONLog(entry LogEntry) {
	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		fmt.Printf(`{"error": "failed to marshal log entry: %v"}%s`, err, "\n")
		return
	}
	fmt.Println(string(jsonBytes))
}

// printPrettyLog outputs the log entry in a human-readable format
func printPrettyLog(entry LogEntry) {
	fmt.Printf("%s | %3d | %8s | %s %s\n",
		entry.Timestamp, entry.StatusCode, entry.Latency, entry.Method, entry.Path)
	if entry.RequestBody != nil {
		if jsonBytes, err := json.MarshalIndent(entry.RequestBody, "  ", "  "); err == nil {
			fmt.Printf("  body: %s\n", string(jsonBytes))
		}
	}
	if entry.Error != "" {
		fmt.Printf("  error: %s\n", entry.Error)
	}
}
