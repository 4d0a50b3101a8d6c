package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PNHMEDIA/faktury-app-v2/internal/domain"
)

// extractionPrompt is the fixed instruction sent with every invoice image.
// Kept in Czech because the processed invoices are Czech accounting documents
// and the field conventions (DUZP etc.) only exist in that terminology.
const extractionPrompt = `Jsi vysoce přesný asistent pro české účetnictví. Tvým úkolem je analyzovat obrázek faktury a extrahovat klíčové informace pro automatické přejmenování souboru. Buď maximálně pečlivý.

Z přiloženého obrázku faktury extrahuj následující informace a vrať je striktně ve formátu JSON:

1. "supplier_name": Najdi přesný a úplný název dodavatelské firmy (protistrany), která fakturu vystavila. Hledej pole označená jako "Dodavatel" nebo "Vystavil". Pokud název nenajdeš, vrať "Neznámý dodavatel".

2. "issue_date": Najdi datum vystavení faktury. Hledej klíčová slova jako "Datum vystavení", "Datum zdanitelného plnění" (DUZP) nebo "Datum uskutečnění plnění". Vždy vrať nejrelevantnější datum pro účetnictví. Formát musí být striktně RRRR-MM-DD. Pokud datum nenajdeš, vrať "RRRR-MM-DD".

3. "description": Identifikuj hlavní předmět fakturace. Podívej se na seznam fakturovaných položek a vytvoř z nich velmi stručný souhrn (maximálně 4-5 slov). Například: "Nákup kancelářských potřeb", "Hostingové služby za květen", "Marketingová konzultace". Pokud popis nelze určit, vrať "Neznámé zboží".

4. "detailed_description": Vytvoř o něco podrobnější popis fakturovaného plnění (1-2 věty), pokud je z faktury čitelný. Pokud ne, vrať prázdný řetězec.

Vrať pouze a jen validní JSON objekt. Žádný další text před nebo za ním.`

// ExtractInvoiceFields sends the JPEG image to the OpenAI vision API and
// returns the extracted invoice record. The image travels inline as a base64
// data URL, so no intermediate storage is involved.
func (c *Client) ExtractInvoiceFields(ctx context.Context, imageJPEG []byte) (*domain.InvoiceRecord, error) {
	if c.apiKey == "" {
		return nil, &OpenAIError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("OpenAI API key is not configured. Please set OPENAI_API_KEY environment variable"),
		}
	}

	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageJPEG)

	type imageRef struct {
		URL string `json:"url"`
	}

	type content struct {
		Type     string    `json:"type"`
		Text     string    `json:"text,omitempty"`
		ImageURL *imageRef `json:"image_url,omitempty"`
	}

	type message struct {
		Role    string    `json:"role"`
		Content []content `json:"content"`
	}

	requestPayload := map[string]interface{}{
		"model": c.modelID,
		"messages": []message{
			{
				Role: "user",
				Content: []content{
					{Type: "text", Text: extractionPrompt},
					{Type: "image_url", ImageURL: &imageRef{URL: imageURL}},
				},
			},
		},
		"response_format": map[string]string{"type": "json_object"},
		"max_tokens":      c.maxTokens,
	}

	requestData, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, &OpenAIError{
			Op:  "marshal_request",
			Err: fmt.Errorf("failed to marshal request payload: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, &OpenAIError{
			Op:  "create_extract_request",
			Err: fmt.Errorf("failed to create request: %w", err),
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &OpenAIError{
			Op:  "send_extract_request",
			Err: fmt.Errorf("failed to send request: %w", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &OpenAIError{
			Op:  "read_response",
			Err: fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &OpenAIError{
			Op:  "check_api_response",
			Err: fmt.Errorf("API error: %s - %s", resp.Status, string(respBody)),
		}
	}

	return parseExtractionResponse(respBody)
}
