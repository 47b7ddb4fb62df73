package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"alumniport/internal/models"
	"alumniport/internal/transliterate"
)

// GeminiModel is the model used by ParseWithGemini.
const GeminiModel = "gemini-2.0-flash-lite"

const geminiPrompt = `You are an expert data extraction assistant. The following text was produced by OCR of a school alumni registry page written in Bengali and/or English. Extract every alumni entry and return them as a JSON array.

Here are the rules:
1. Each element is an object with the fields: "serial_id", "honorific", "name", "native_name", "year", "deceased".
2. "serial_id" is the entry number as written, including suffixes like "ka" or "ক" (convert Bengali digits to 0-9).
3. "honorific" is one of "Dr.", "Prof.", "Moh.", "Shri", "Smt.", "Mr.", "Ms." or null.
4. "name" is the person's name transliterated into English (Latin script), without the title. "native_name" is the name as written in Bengali, or null.
5. "year" is the four digit year of leaving in 0-9 digits, or null if absent.
6. "deceased" is true when the entry is marked প্রয়াত, মৃত or deceased, otherwise false.
7. Your entire response must be ONLY the JSON array. Do not include any explanations or any text before or after it.

Here is the raw text:
"""
[INSERT RAW OCR TEXT HERE]
"""`

// ParseWithGemini asks Gemini to structure OCR text into entries. It is the
// alternative to Parser for pages the regex rules cannot handle.
func ParseWithGemini(ctx context.Context, apiKey, ocrText, source string) ([]models.AlumniSourceEntry, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to init Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(GeminiModel)
	model.GenerationConfig = genai.GenerationConfig{ResponseMIMEType: "application/json"}

	prompt := strings.Replace(geminiPrompt, "[INSERT RAW OCR TEXT HERE]", ocrText, 1)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil, errors.New("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		} else {
			sb.WriteString(fmt.Sprint(part))
		}
	}
	return decodeEntries(sb.String(), source)
}

// decodeEntries tolerates code fences, prose around the JSON, nulls, and
// numbers where strings are expected.
func decodeEntries(payload, source string) ([]models.AlumniSourceEntry, error) {
	jsonStr := stripCodeFences(payload)
	if jsonStr == "" {
		return nil, errors.New("no text in Gemini response")
	}
	if candidate, ok := extractFirstJSON(jsonStr); ok {
		jsonStr = candidate
	}

	var items []map[string]any
	if strings.HasPrefix(jsonStr, "{") {
		var one map[string]any
		if err := json.Unmarshal([]byte(jsonStr), &one); err != nil {
			return nil, fmt.Errorf("failed to parse Gemini JSON: %w", err)
		}
		// either {"entries": [...]} or a single entry
		if nested, ok := one["entries"].([]any); ok {
			for _, n := range nested {
				if m, ok := n.(map[string]any); ok {
					items = append(items, m)
				}
			}
		} else {
			items = append(items, one)
		}
	} else if err := json.Unmarshal([]byte(jsonStr), &items); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini JSON: %w", err)
	}

	var entries []models.AlumniSourceEntry
	for _, tmp := range items {
		get := func(k string) string {
			v, ok := tmp[k]
			if !ok || v == nil {
				return ""
			}
			switch t := v.(type) {
			case string:
				return strings.TrimSpace(t)
			default:
				b, _ := json.Marshal(t)
				return strings.TrimSpace(string(b))
			}
		}

		e := models.AlumniSourceEntry{
			SerialID:      transliterate.Digits(get("serial_id")),
			FullName:      strings.Join(strings.Fields(get("name")), " "),
			NativeName:    get("native_name"),
			YearOfLeaving: transliterate.Digits(get("year")),
			Source:        source,
		}
		if h, err := models.ParseHonorific(get("honorific")); err == nil {
			e.Honorific = h
		}
		switch strings.ToLower(get("deceased")) {
		case "true", "yes", "1":
			e.IsDeceased = true
		}
		if e.FullName == "" && e.NativeName != "" {
			e.FullName = transliterate.Text(e.NativeName)
		}
		if e.FullName == "" {
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyExtraction
	}
	return entries, nil
}

// stripCodeFences removes surrounding Markdown code fences like ```json ... ```.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		// drop a language tag on the fence line
		if i := strings.IndexByte(s, '\n'); i != -1 {
			first := strings.TrimSpace(s[:i])
			if len(first) > 0 && len(first) < 20 && !strings.ContainsAny(first, "[{") {
				s = s[i+1:]
			}
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// extractFirstJSON returns the first balanced JSON array or object,
// whichever opens first.
func extractFirstJSON(s string) (string, bool) {
	arr := strings.IndexByte(s, '[')
	obj := strings.IndexByte(s, '{')
	if arr != -1 && (obj == -1 || arr < obj) {
		if v, ok := extractBalanced(s, '[', ']'); ok {
			return v, true
		}
	}
	if v, ok := extractBalanced(s, '{', '}'); ok {
		return v, true
	}
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, close rune) (string, bool) {
	start := -1
	depth := 0
	for i, r := range s {
		if r == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if r == close {
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
