package recommend

import (
	"fmt"
	"strings"

	"github.com/roomcraft/roomcraft/internal/models"
)

const systemInstruction = "You are a sophisticated algorithm that recommends furniture and determines design themes."

// buildPrompt renders the catalog table, the user's request and the output contract
func buildPrompt(items []models.CatalogItem, prompt string, maxResults int) string {
	var table strings.Builder
	for _, item := range items {
		fmt.Fprintf(&table, "ID: %s, Title: %s, Description: %s, Category: %s\n",
			item.ID, oneLine(item.Title), oneLine(item.Description), oneLine(item.Category))
	}

	themes := make([]string, len(models.Themes))
	for i, t := range models.Themes {
		themes[i] = string(t)
	}

	return fmt.Sprintf(`Given these products:
%s
User desires: "%s"

Return ONLY a JSON object with these two fields:
1. "recommendedIds": array of at most %d product IDs from the list above, ranked best match first
2. "theme": one of these themes [%s] that best matches the user's prompt. If the user's prompt is nonsensical or hard to decipher, stick with "%s".

Example format: {"recommendedIds": ["id1", "id2"], "theme": "modern"}`,
		table.String(), prompt, maxResults, strings.Join(themes, ", "), models.DefaultTheme)
}

// oneLine keeps one catalog row per line in the table
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
