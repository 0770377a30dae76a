package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"resume-pipeline/internal/llm"
)

// UploadTrainingFile uploads a JSONL training file and returns its file id.
func (c *Client) UploadTrainingFile(ctx context.Context, fileName string, r io.Reader) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("purpose", "fine-tune"); err != nil {
		return "", fmt.Errorf("write purpose field: %w", err)
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copy training file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/files", body)
	if err != nil {
		return "", fmt.Errorf("build files request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var parsed struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(req, &parsed); err != nil {
		return "", err
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("files response missing id")
	}
	return parsed.ID, nil
}

// CreateFineTuneJob starts a fine-tuning job over an uploaded training file
// and returns the job id.
func (c *Client) CreateFineTuneJob(ctx context.Context, trainingFileID string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"training_file": trainingFileID,
		"model":         c.model,
	})
	if err != nil {
		return "", fmt.Errorf("marshal fine-tune request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/fine_tuning/jobs", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build fine-tune request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var parsed struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(req, &parsed); err != nil {
		return "", err
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("fine-tune response missing id")
	}
	return parsed.ID, nil
}

// doJSON executes the request and decodes the response into out, translating
// API error bodies into *llm.APIError.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read openai response: %w", err)
	}

	var envelope struct {
		Error *apiErrorBody `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return &llm.APIError{StatusCode: resp.StatusCode, Type: envelope.Error.Type, Message: envelope.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return &llm.APIError{StatusCode: resp.StatusCode, Message: truncate(string(body), 200)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode openai response: %w", err)
	}
	return nil
}
