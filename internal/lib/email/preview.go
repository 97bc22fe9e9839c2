package email

// PreviewData holds sample values for every template, keyed by template
// name and then by variable name.
var PreviewData = map[Template]map[string]string{
	TemplateFoodChanged: {
		"Action":   "created",
		"FoodID":   "42",
		"FoodName": "Apple",
	},
}
