package vat

import (
	"encoding/xml"
	"strings"
)

// ExtractField returns the text of the first <name> element nested under
// <basic_rec> in an AADE response body, or "" when the field is absent or the
// document is malformed (e.g. the provider returned an HTML error page).
// The body is expected in namespace-stripped form as the AADE client caches it.
func ExtractField(xmlBody, name string) string {
	values := extractAll(xmlBody, "basic_rec", name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// ExtractActivities returns all business-activity descriptions
// (firm_act_tab/item/firm_act_descr) from an AADE response body, or nil when
// none are present.
func ExtractActivities(xmlBody string) []string {
	return extractAll(xmlBody, "firm_act_tab", "item", "firm_act_descr")
}

// extractAll walks the token stream and collects the character data of every
// element whose open-element path ends with the given local-name suffix.
// Parse errors terminate the walk and whatever was collected so far is kept.
func extractAll(xmlBody string, suffix ...string) []string {
	dec := xml.NewDecoder(strings.NewReader(xmlBody))

	var stack []string
	var values []string
	var text strings.Builder
	capturing := false

	for {
		tok, err := dec.Token()
		if err != nil {
			return values
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			if pathHasSuffix(stack, suffix) {
				capturing = true
				text.Reset()
			}
		case xml.CharData:
			if capturing {
				text.Write(t)
			}
		case xml.EndElement:
			if capturing && pathHasSuffix(stack, suffix) {
				values = append(values, strings.TrimSpace(text.String()))
				capturing = false
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

func pathHasSuffix(stack, suffix []string) bool {
	if len(stack) < len(suffix) {
		return false
	}
	offset := len(stack) - len(suffix)
	for i, name := range suffix {
		if stack[offset+i] != name {
			return false
		}
	}
	return true
}
