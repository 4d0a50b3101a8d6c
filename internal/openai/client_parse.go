package openai

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"

	"github.com/PNHMEDIA/faktury-app-v2/internal/domain"
)

// recordDTO mirrors the JSON object the extraction prompt asks the model for.
type recordDTO struct {
	SupplierName        string `json:"supplier_name"`
	IssueDate           string `json:"issue_date"`
	Description         string `json:"description"`
	DetailedDescription string `json:"detailed_description"`
}

func (dto *recordDTO) toRecord() *domain.InvoiceRecord {
	record := domain.NewInvoiceRecord()
	if dto.SupplierName != "" {
		record.SupplierName = dto.SupplierName
	}
	if dto.Description != "" {
		record.Description = dto.Description
	}
	record.IssueDate = domain.ParseDateOnly(dto.IssueDate)
	record.DetailedDescription = dto.DetailedDescription
	return record
}

// parseExtractionResponse parses the JSON response from the chat completions API
func parseExtractionResponse(respBody []byte) (*domain.InvoiceRecord, error) {
	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}

	type response struct {
		Choices []choice `json:"choices"`
	}

	var parsed response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &OpenAIError{
			Op:  "parse_response_json",
			Err: fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}

	if len(parsed.Choices) == 0 {
		return nil, &OpenAIError{
			Op:  "check_response_choices",
			Err: fmt.Errorf("no choices in response"),
		}
	}

	content := parsed.Choices[0].Message.Content

	// The prompt demands bare JSON; try that first.
	var dto recordDTO
	if err := json.Unmarshal([]byte(content), &dto); err == nil {
		return dto.toRecord(), nil
	}

	log.Printf("Failed to parse extraction content as JSON directly, trying to recover a JSON object")
	return extractRecordWithRegex(content)
}

// extractRecordWithRegex tries to salvage the JSON object from content the
// model wrapped in code fences or surrounding prose.
func extractRecordWithRegex(content string) (*domain.InvoiceRecord, error) {
	content = regexp.MustCompile("```json\\s*").ReplaceAllString(content, "")
	content = regexp.MustCompile("```\\s*").ReplaceAllString(content, "")

	jsonMatch := regexp.MustCompile(`\{[\s\S]*\}`).FindString(content)
	if jsonMatch != "" {
		var dto recordDTO
		if err := json.Unmarshal([]byte(jsonMatch), &dto); err == nil {
			return dto.toRecord(), nil
		}
	}

	// Last resort: pick out individual fields.
	dto := recordDTO{}
	fields := map[string]*string{
		"supplier_name":        &dto.SupplierName,
		"issue_date":           &dto.IssueDate,
		"description":          &dto.Description,
		"detailed_description": &dto.DetailedDescription,
	}
	found := false
	for name, dst := range fields {
		re := regexp.MustCompile(`"` + name + `"\s*:\s*"([^"]*)"`)
		if matches := re.FindStringSubmatch(content); len(matches) > 1 {
			*dst = matches[1]
			if matches[1] != "" {
				found = true
			}
		}
	}

	if !found {
		return nil, &OpenAIError{
			Op:  "extract_json_with_regex",
			Err: fmt.Errorf("failed to extract invoice fields from model response"),
		}
	}

	return dto.toRecord(), nil
}
