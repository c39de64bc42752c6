package extraction

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseLineItemsJSON parses the JSON response from the model into line items
func parseLineItemsJSON(text string) ([]LineItem, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON array boundaries - look for first [ and last ]
	startIdx := strings.Index(text, "[")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	endIdx := strings.LastIndex(text, "]")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON array in response")
	}

	// Extract just the JSON part
	text = text[startIdx : endIdx+1]

	if err := validateLineItemsJSON([]byte(text)); err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	items := make([]LineItem, 0, len(raw))
	for _, m := range raw {
		item := LineItem{
			Vendor:        cleanString(m["vendor"]),
			InvoiceNumber: cleanString(m["invoice_number"]),
			InvoiceDate:   normalizeDate(cleanString(m["invoice_date"])),
			Description:   cleanString(m["description"]),
			Quantity:      coerceNumber(m["quantity"]),
			UnitPrice:     coerceNumber(m["unit_price"]),
			Total:         coerceNumber(m["total"]),
		}
		if item.Description == "" {
			item.Description = "Unknown Item"
		}
		items = append(items, item)
	}

	return items, nil
}

// cleanString returns v as a trimmed string, or "" for null/non-string values
func cleanString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// coerceNumber accepts numbers as well as quoted numbers like "42.75" or "$42.75"
func coerceNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// normalizeDate converts common date formats to YYYY-MM-DD.
// Unrecognized values pass through unchanged so the user can fix them in the editor.
func normalizeDate(date string) string {
	if date == "" {
		return ""
	}

	if d, err := time.Parse("2006-01-02", date); err == nil {
		return d.Format("2006-01-02")
	}

	formats := []string{
		"2006/01/02",
		"01/02/2006",
		"02-01-2006",
		"Jan 2, 2006",
		"January 2, 2006",
	}
	for _, format := range formats {
		if d, err := time.Parse(format, date); err == nil {
			return d.Format("2006-01-02")
		}
	}

	return date
}
