package extraction

import (
	"fmt"
	"strings"
)

// categoryFields lists the keys requested for each document category
var categoryFields = map[string][]string{
	"lease":     {"tenant_name", "monthly_rent", "lease_start", "lease_end", "deposit"},
	"tax":       {"tax_year", "assessed_value", "tax_amount", "due_date"},
	"insurance": {"insurer", "policy_number", "premium", "coverage_amount", "renewal_date"},
	"mortgage":  {"lender", "principal_balance", "interest_rate", "monthly_payment"},
}

const systemPrompt = "You extract structured data from real estate documents for a property owner. " +
	"Answer with a single JSON object and nothing else."

// instructionFor builds the user instruction for a category
func instructionFor(category, fileName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The attached file %q is a %s document.\n", fileName, describe(category))
	if fields, ok := categoryFields[category]; ok {
		fmt.Fprintf(&b, "Extract these fields: %s.\n", strings.Join(fields, ", "))
		b.WriteString("Use null for a field that is not present. Amounts are plain numbers without currency symbols; dates are YYYY-MM-DD.\n")
	} else {
		b.WriteString("Extract the key facts a property owner would want to track, such as parties, amounts, dates and reference numbers, using short snake_case keys.\n")
	}
	b.WriteString(`Respond exactly in the form {"fields": {...}, "summary": "one or two sentences"}.`)
	return b.String()
}

func describe(category string) string {
	switch category {
	case "lease":
		return "residential or commercial lease"
	case "tax":
		return "property tax"
	case "insurance":
		return "property insurance"
	case "mortgage":
		return "mortgage statement"
	case "inspection":
		return "property inspection"
	case "receipt":
		return "receipt or invoice"
	}
	return "property-related"
}
