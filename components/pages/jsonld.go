// components/pages/jsonld.go
//
// JSON-LD builders for the structured-data blocks.  Payloads are built
// with encoding/json so values are escaped correctly inside the script
// tag.

package pages

import "encoding/json"

func marshalLD(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func articleJSONLD(title, desc, url, author string) string {
	doc := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Article",
		"headline":    title,
		"description": desc,
		"url":         url,
	}
	if author != "" {
		doc["author"] = map[string]any{"@type": "Person", "name": author}
	}
	return marshalLD(doc)
}

func qaJSONLD(title, question, answer, url, author string) string {
	accepted := map[string]any{"@type": "Answer", "text": answer}
	if author != "" {
		accepted["author"] = map[string]any{"@type": "Person", "name": author}
	}
	return marshalLD(map[string]any{
		"@context": "https://schema.org",
		"@type":    "QAPage",
		"mainEntity": map[string]any{
			"@type":          "Question",
			"name":           title,
			"text":           question,
			"url":            url,
			"acceptedAnswer": accepted,
		},
	})
}

func bookJSONLD(name, desc, url, author string) string {
	doc := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Book",
		"name":        name,
		"description": desc,
		"url":         url,
	}
	if author != "" {
		doc["author"] = map[string]any{"@type": "Person", "name": author}
	}
	return marshalLD(doc)
}
