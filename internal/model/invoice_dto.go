package model

// PlaceholderValue is shown for fields that could not be recovered from a
// stored filename.
const PlaceholderValue = "N/A"

// Error codes attached to per-file upload results so clients can distinguish
// an operator problem (missing PDF tool) from a bad file.
const (
	ErrCodeToolNotFound     = "tool_not_found"
	ErrCodeRasterFailed     = "raster_failed"
	ErrCodeExtractionFailed = "extraction_failed"
	ErrCodeStorageFailed    = "storage_failed"
)

// UploadFileResult reports the outcome of processing one uploaded file.
// Files in a batch succeed or fail independently.
type UploadFileResult struct {
	OriginalName string `json:"original_name"`
	Filename     string `json:"filename,omitempty"` // final stored name on success
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	ErrorCode    string `json:"error_code,omitempty"`
}

// BatchUploadResponse is the response to a multi-file upload request.
type BatchUploadResponse struct {
	Processed int                `json:"processed"`
	Failed    int                `json:"failed"`
	Results   []UploadFileResult `json:"results"`
}

// DashboardEntry represents one processed invoice on the dashboard listing.
type DashboardEntry struct {
	Filename            string `json:"filename"`
	PreviewImage        string `json:"preview_image"`
	IssueDate           string `json:"date"`
	Supplier            string `json:"supplier"`
	Description         string `json:"description"`
	DetailedDescription string `json:"detailed_description,omitempty"`
}

// InvoiceListResponse is the dashboard listing payload.
type InvoiceListResponse struct {
	Data []DashboardEntry `json:"data"`
}

// EditInvoiceRequest carries new field values for an existing invoice.
type EditInvoiceRequest struct {
	Supplier    string `json:"supplier" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// EditInvoiceResponse returns the new artifact name after a rename.
type EditInvoiceResponse struct {
	Filename string `json:"filename"`
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries a fresh session token. The same token is also set as
// an HTTP cookie for browser clients.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"` // seconds
}

// ErrorDetail provides field-level error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}
