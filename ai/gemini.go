// Package ai classifies waste photos with the Gemini generateContent API.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	modelName      = "gemini-2.5-flash"
)

// classifyPrompt pins the response shape; the model is asked for bare JSON
// with an integer gram figure.
const classifyPrompt = `Analyze the waste item in this image. Provide the following information in a **valid JSON** format:
{
  "name": "Only the name of the waste item (short and clear, e.g., 'Plastic Bottle', 'Aluminum Can')",
  "item_details": "Name of the waste item and its material composition",
  "carbon_footprint_data": "Only return the estimated carbon footprint in g CO2e as an integer (e.g., 25, 100, 250)",
  "disposal_methods": "Recommended disposal methods (e.g., 'Recycle with plastics', 'Compost', 'Landfill', 'Special hazardous waste disposal')."
}
Do NOT include extra text or explanation. Only return the JSON object.`

// Grams tolerates the model returning the integer as a JSON string.
type Grams int

func (g *Grams) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*g = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("carbon_footprint_data is not an integer: %q", s)
	}
	*g = Grams(n)
	return nil
}

type WasteAnalysis struct {
	Name                string `json:"name"`
	ItemDetails         string `json:"item_details"`
	CarbonFootprintData Grams  `json:"carbon_footprint_data"`
	DisposalMethods     string `json:"disposal_methods"`
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// request/response mirror the slice of the generateContent wire format we
// actually use.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	InlineData *inlineData `json:"inline_data,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Classify sends the JPEG bytes with the fixed instructional prompt and
// parses the model's JSON reply.
func (c *Client) Classify(ctx context.Context, jpeg []byte) (WasteAnalysis, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MimeType: "image/jpeg",
					Data:     base64.StdEncoding.EncodeToString(jpeg),
				}},
				{Text: classifyPrompt},
			},
		}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return WasteAnalysis{}, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, modelName, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return WasteAnalysis{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return WasteAnalysis{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WasteAnalysis{}, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return WasteAnalysis{}, err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return WasteAnalysis{}, fmt.Errorf("gemini returned no candidates")
	}

	return ParseAnalysis(gr.Candidates[0].Content.Parts[0].Text)
}

// ParseAnalysis decodes the model's reply, tolerating a markdown code
// fence around the JSON object.
func ParseAnalysis(text string) (WasteAnalysis, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	var analysis WasteAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return WasteAnalysis{}, fmt.Errorf("invalid classification response: %w", err)
	}
	if analysis.Name == "" {
		return WasteAnalysis{}, fmt.Errorf("classification response missing name")
	}
	return analysis, nil
}
