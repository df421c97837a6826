package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	text := `{"name":"Plastic Bottle","item_details":"PET plastic bottle","carbon_footprint_data":82,"disposal_methods":"Recycle with plastics"}`
	analysis, err := ParseAnalysis(text)
	require.NoError(t, err)
	assert.Equal(t, "Plastic Bottle", analysis.Name)
	assert.Equal(t, Grams(82), analysis.CarbonFootprintData)
	assert.Equal(t, "Recycle with plastics", analysis.DisposalMethods)
}

func TestParseAnalysisFenced(t *testing.T) {
	text := "```json\n{\"name\":\"Aluminum Can\",\"item_details\":\"Aluminum beverage can\",\"carbon_footprint_data\":\"170\",\"disposal_methods\":\"Recycle with metals\"}\n```"
	analysis, err := ParseAnalysis(text)
	require.NoError(t, err)
	assert.Equal(t, "Aluminum Can", analysis.Name)
	// Quoted integers still parse.
	assert.Equal(t, Grams(170), analysis.CarbonFootprintData)
}

func TestParseAnalysisMissingCarbon(t *testing.T) {
	analysis, err := ParseAnalysis(`{"name":"Banana Peel","item_details":"Organic waste","disposal_methods":"Compost"}`)
	require.NoError(t, err)
	assert.Equal(t, Grams(0), analysis.CarbonFootprintData)
}

func TestParseAnalysisRejectsGarbage(t *testing.T) {
	_, err := ParseAnalysis("I could not identify the item.")
	assert.Error(t, err)

	_, err = ParseAnalysis(`{"item_details":"no name field"}`)
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	inner := `{"name":"Glass Jar","item_details":"Soda-lime glass jar","carbon_footprint_data":250,"disposal_methods":"Recycle with glass"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.Equal(t, "image/jpeg", req.Contents[0].Parts[0].InlineData.MimeType)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]string{{"text": inner}},
				},
			}},
		})
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.baseURL = server.URL

	analysis, err := client.Classify(context.Background(), []byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	assert.Equal(t, "Glass Jar", analysis.Name)
	assert.Equal(t, Grams(250), analysis.CarbonFootprintData)
}

func TestClassifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.baseURL = server.URL

	_, err := client.Classify(context.Background(), []byte{0x00})
	assert.Error(t, err)
}
