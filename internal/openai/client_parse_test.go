package openai

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PNHMEDIA/faktury-app-v2/internal/domain"
)

// apiResponse wraps a content string in the chat completions envelope.
func apiResponse(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestParseExtractionResponse(t *testing.T) {
	t.Run("PlainJSONContent", func(t *testing.T) {
		content := `{"supplier_name":"ACME s.r.o.","issue_date":"2024-03-07","description":"Hosting","detailed_description":"Hostingové služby."}`

		record, err := parseExtractionResponse(apiResponse(t, content))
		require.NoError(t, err)
		assert.Equal(t, "ACME s.r.o.", record.SupplierName)
		assert.Equal(t, "2024-03-07", record.IssueDate.String())
		assert.Equal(t, "Hosting", record.Description)
		assert.Equal(t, "Hostingové služby.", record.DetailedDescription)
	})

	t.Run("EmptyFieldsFallBackToUnknowns", func(t *testing.T) {
		content := `{"supplier_name":"","issue_date":"","description":""}`

		record, err := parseExtractionResponse(apiResponse(t, content))
		require.NoError(t, err)
		assert.Equal(t, domain.UnknownSupplier, record.SupplierName)
		assert.Equal(t, domain.UnknownDescription, record.Description)
		assert.Equal(t, domain.UnknownDate, record.IssueDate.String())
	})

	t.Run("CodeFencedContent", func(t *testing.T) {
		content := "```json\n{\"supplier_name\":\"ACME\",\"issue_date\":\"2024-03-07\",\"description\":\"Hosting\"}\n```"

		record, err := parseExtractionResponse(apiResponse(t, content))
		require.NoError(t, err)
		assert.Equal(t, "ACME", record.SupplierName)
	})

	t.Run("JSONBuriedInProse", func(t *testing.T) {
		content := `Here is the extracted data: {"supplier_name":"ACME","issue_date":"2024-03-07","description":"Hosting"} Let me know if you need more.`

		record, err := parseExtractionResponse(apiResponse(t, content))
		require.NoError(t, err)
		assert.Equal(t, "ACME", record.SupplierName)
		assert.Equal(t, "2024-03-07", record.IssueDate.String())
	})

	t.Run("NoUsableContentFails", func(t *testing.T) {
		_, err := parseExtractionResponse(apiResponse(t, "I could not read this invoice, sorry."))
		require.Error(t, err)

		var apiErr *OpenAIError
		require.ErrorAs(t, err, &apiErr)
	})

	t.Run("NoChoicesFails", func(t *testing.T) {
		_, err := parseExtractionResponse([]byte(`{"choices":[]}`))
		require.Error(t, err)
	})

	t.Run("MalformedEnvelopeFails", func(t *testing.T) {
		_, err := parseExtractionResponse([]byte(`not json at all`))
		require.Error(t, err)
	})
}

func TestOpenAIError(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := &OpenAIError{Op: "send_extract_request", Err: inner}
	assert.Contains(t, err.Error(), "send_extract_request")
	assert.ErrorIs(t, err, inner)
}
